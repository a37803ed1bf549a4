package mocks

//go:generate go run go.uber.org/mock/mockgen -source=../../../pkg/pubsub/interface.go -destination=mock_pubsub.go -package=mocks
