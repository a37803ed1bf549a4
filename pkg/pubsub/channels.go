package pubsub

import (
	"fmt"
	"strings"
)

// Channel naming conventions for conversation fan-out.
const (
	// ChannelConversationMessages carries every message created in one conversation.
	// UI subscribers build the identical string, so the format is part of the wire contract.
	ChannelConversationMessages = "chat:%s:messages"

	// PatternConversationMessages matches every conversation channel.
	PatternConversationMessages = "chat:*:messages"

	conversationChannelPrefix = "chat"
	conversationChannelSuffix = "messages"
)

// Event types carried on conversation channels.
const (
	EventMessageCreated = "message.created"
)

// ConversationMessagesChannel returns the channel name for a conversation's messages.
func ConversationMessagesChannel(conversationID string) string {
	return fmt.Sprintf(ChannelConversationMessages, conversationID)
}

// ParseConversationMessagesChannel extracts the conversation ID from a channel
// built by ConversationMessagesChannel.
func ParseConversationMessagesChannel(channel string) (string, bool) {
	parts := strings.Split(channel, ":")
	if len(parts) != 3 ||
		parts[0] != conversationChannelPrefix ||
		parts[2] != conversationChannelSuffix ||
		parts[1] == "" || parts[1] == "*" {
		return "", false
	}
	return parts[1], true
}
