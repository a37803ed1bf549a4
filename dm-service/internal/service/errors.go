package service

import "errors"

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrMissingConversationID = errors.New("conversation id missing")
	ErrMissingContent        = errors.New("content missing")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrMemberNotFound        = errors.New("member not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrSameUser              = errors.New("cannot start a conversation with yourself")
	ErrInvalidRoutingKey     = errors.New("invalid routing key")
)
