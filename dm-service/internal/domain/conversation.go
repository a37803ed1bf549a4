package domain

import (
	"time"
)

// User is the profile a membership points at.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Member is one side of a conversation. Messages are attributed to a
// member, not directly to a user.
type Member struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	ConversationID string    `json:"conversationId"`
	User           *User     `json:"user,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Conversation is a two-party direct conversation. Both members are fixed
// at creation.
type Conversation struct {
	ID          string    `json:"id"`
	MemberOneID string    `json:"memberOneId"`
	MemberTwoID string    `json:"memberTwoId"`
	MemberOne   *Member   `json:"memberOne,omitempty"`
	MemberTwo   *Member   `json:"memberTwo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MemberFor returns the caller's own membership, or nil when userID is not
// part of the conversation.
func (c *Conversation) MemberFor(userID string) *Member {
	if c == nil || userID == "" {
		return nil
	}
	if c.MemberOne != nil && c.MemberOne.UserID == userID {
		return c.MemberOne
	}
	if c.MemberTwo != nil && c.MemberTwo.UserID == userID {
		return c.MemberTwo
	}
	return nil
}

// HasMember reports whether userID is one of the two members.
func (c *Conversation) HasMember(userID string) bool {
	return c.MemberFor(userID) != nil
}

// DirectMessage is a message posted into a conversation. Immutable once created.
type DirectMessage struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	FileURL        *string   `json:"fileUrl"`
	MemberID       string    `json:"memberId"`
	ConversationID string    `json:"conversationId"`
	Member         *Member   `json:"member,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SendMessageRequest is the body of a message ingest request.
type SendMessageRequest struct {
	Content string  `json:"content"`
	FileURL *string `json:"fileUrl"`
}

// CreateConversationRequest asks for the conversation with another user.
type CreateConversationRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// MessagePage is one page of conversation history, newest first.
type MessagePage struct {
	Items      []*DirectMessage `json:"items"`
	NextCursor *string          `json:"nextCursor"`
}

// PresignRequest asks for a direct upload URL.
type PresignRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// PresignResponse carries the upload URL and the address the file will have.
type PresignResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
}

// UploadResponse is returned after an attachment is stored.
type UploadResponse struct {
	FileURL string `json:"fileUrl"`
}
