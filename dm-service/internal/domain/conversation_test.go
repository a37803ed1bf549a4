package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConversation_MemberFor(t *testing.T) {
	conv := &Conversation{
		ID:        "c1",
		MemberOne: &Member{ID: "m1", UserID: "alice"},
		MemberTwo: &Member{ID: "m2", UserID: "bob"},
	}

	t.Run("should return the caller's own membership", func(t *testing.T) {
		req := require.New(t)
		req.Equal("m1", conv.MemberFor("alice").ID)
		req.Equal("m2", conv.MemberFor("bob").ID)
	})

	t.Run("should return nil for outsiders", func(t *testing.T) {
		req := require.New(t)
		req.Nil(conv.MemberFor("carol"))
		req.Nil(conv.MemberFor(""))
		req.False(conv.HasMember("carol"))
	})

	t.Run("should tolerate a nil conversation", func(t *testing.T) {
		req := require.New(t)
		var none *Conversation
		req.Nil(none.MemberFor("alice"))
	})
}

func TestDirectMessage_JSON(t *testing.T) {
	req := require.New(t)

	msg := &DirectMessage{
		ID:             "01J0000000000000000000000",
		Content:        "hello",
		MemberID:       "m1",
		ConversationID: "c1",
		Member: &Member{
			ID:             "m1",
			UserID:         "alice",
			ConversationID: "c1",
			User:           &User{ID: "alice", Name: "Alice", ImageURL: "http://img", Email: "a@x"},
		},
	}

	data, err := json.Marshal(msg)
	req.NoError(err)

	var out map[string]any
	req.NoError(json.Unmarshal(data, &out))
	req.Contains(out, "fileUrl")
	req.Nil(out["fileUrl"])
	req.Equal("m1", out["memberId"])
	req.Equal("c1", out["conversationId"])

	member := out["member"].(map[string]any)
	user := member["user"].(map[string]any)
	req.Equal("http://img", user["imageUrl"])
}
