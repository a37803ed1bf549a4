package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/choosenname/OneTeam/pkg/log"
)

func TestLogConversation(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(log.Config{Output: &buf}))

	LogConversation(ctx, ActionSendMessage, "bob", "c1", "direct message created")

	var entry map[string]any
	req.NoError(json.Unmarshal(buf.Bytes(), &entry))
	req.Equal(log.LogTypeAudit, entry[log.FieldLogType])
	req.Equal(ActionSendMessage, entry[FieldAction])
	req.Equal("bob", entry[log.FieldUserID])
	req.Equal("c1", entry[log.FieldConversationID])
}
