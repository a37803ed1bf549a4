package pubsub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConversationMessagesChannel(t *testing.T) {
	req := require.New(t)
	req.Equal("chat:c-42:messages", ConversationMessagesChannel("c-42"))
}

func TestParseConversationMessagesChannel(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		wantID  string
		wantOK  bool
	}{
		{name: "valid key", channel: "chat:c-42:messages", wantID: "c-42", wantOK: true},
		{name: "pattern is not a key", channel: PatternConversationMessages},
		{name: "empty id", channel: "chat::messages"},
		{name: "wrong prefix", channel: "room:c-42:messages"},
		{name: "wrong suffix", channel: "chat:c-42:typing"},
		{name: "extra segment", channel: "chat:c:42:messages"},
		{name: "empty", channel: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			id, ok := ParseConversationMessagesChannel(tt.channel)
			req.Equal(tt.wantOK, ok)
			req.Equal(tt.wantID, id)
		})
	}
}

func TestNewEvent(t *testing.T) {
	req := require.New(t)

	event, err := NewEvent(EventMessageCreated, "chat:c1:messages", map[string]string{"content": "hi"})
	req.NoError(err)
	req.Equal(EventMessageCreated, event.Type)
	req.Equal("chat:c1:messages", event.Key)
	req.JSONEq(`{"content":"hi"}`, string(event.Payload))

	var payload struct {
		Content string `json:"content"`
	}
	req.NoError(event.Decode(&payload))
	req.Equal("hi", payload.Content)
}
