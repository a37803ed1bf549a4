package audit

import (
	"context"

	"github.com/choosenname/OneTeam/pkg/log"
)

// Audit actions for dm-service.
const (
	ActionSendMessage        = "direct_message.create"
	ActionCreateConversation = "conversation.create"
	ActionUpsertProfile      = "profile.upsert"
	ActionUploadAttachment   = "attachment.upload"
)

const FieldAction = "action"

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, userID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Msg(msg)
}

// LogConversation emits an audit entry scoped to one conversation.
func LogConversation(ctx context.Context, action, userID, conversationID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(log.FieldConversationID, conversationID).
		Msg(msg)
}
