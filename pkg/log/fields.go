package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches pkg/middleware/auth.go keys)
	FieldUserID   = "user_id"
	FieldUsername = "username"

	// Service
	FieldService = "service"

	// Conversation / delivery
	FieldConversationID = "conversation_id"
	FieldMemberID       = "member_id"
	FieldMessageID      = "message_id"
	FieldRoutingKey     = "routing_key"
	FieldClientID       = "client_id"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"

	// Tag prefixed to unexpected errors on the message ingest path.
	FieldTag = "tag"
)
