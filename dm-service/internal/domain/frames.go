package domain

import "encoding/json"

// WebSocket frame types from client.
const (
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
	FramePing        = "ping"
)

// WebSocket frame types to client.
const (
	FrameSubscribed   = "subscribed"
	FrameUnsubscribed = "unsubscribed"
	FramePong         = "pong"
	FrameEvent        = "event"
	FrameError        = "error"
)

// Error codes
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// ClientFrame is any frame a WebSocket client sends.
type ClientFrame struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
}

// KeyFrame acknowledges a subscribe or unsubscribe.
type KeyFrame struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

// EventFrame carries one published payload to a subscriber.
type EventFrame struct {
	Type string          `json:"type"`
	Key  string          `json:"key"`
	Data json.RawMessage `json:"data"`
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorFrame(code, message string) *ErrorFrame {
	return &ErrorFrame{
		Type:    FrameError,
		Code:    code,
		Message: message,
	}
}
