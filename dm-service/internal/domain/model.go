package domain

import (
	"time"
)

// UserModel is the GORM model for users table.
type UserModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	ImageURL  string    `gorm:"type:text"`
	Email     string    `gorm:"type:varchar(255);index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to domain User.
func (m *UserModel) ToDomain() *User {
	if m == nil {
		return nil
	}
	return &User{
		ID:        m.ID,
		Name:      m.Name,
		ImageURL:  m.ImageURL,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// UserToModel converts domain User to UserModel.
func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		Name:      u.Name,
		ImageURL:  u.ImageURL,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// MemberModel is the GORM model for members table.
type MemberModel struct {
	ID             string     `gorm:"type:varchar(36);primaryKey"`
	UserID         string     `gorm:"type:varchar(36);index;not null"`
	ConversationID string     `gorm:"type:varchar(36);index;not null"`
	User           *UserModel `gorm:"foreignKey:UserID"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
}

// TableName specifies the table name for MemberModel.
func (MemberModel) TableName() string {
	return "members"
}

// ToDomain converts MemberModel to domain Member.
func (m *MemberModel) ToDomain() *Member {
	if m == nil {
		return nil
	}
	return &Member{
		ID:             m.ID,
		UserID:         m.UserID,
		ConversationID: m.ConversationID,
		User:           m.User.ToDomain(),
		CreatedAt:      m.CreatedAt,
	}
}

// ConversationModel is the GORM model for conversations table.
// The unique index on the member pair keeps one row per ordered pair; the
// repository looks both orders up before creating.
type ConversationModel struct {
	ID          string       `gorm:"type:varchar(36);primaryKey"`
	MemberOneID string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_conversation_members"`
	MemberTwoID string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_conversation_members;index"`
	MemberOne   *MemberModel `gorm:"foreignKey:MemberOneID"`
	MemberTwo   *MemberModel `gorm:"foreignKey:MemberTwoID"`
	CreatedAt   time.Time    `gorm:"autoCreateTime"`
}

// TableName specifies the table name for ConversationModel.
func (ConversationModel) TableName() string {
	return "conversations"
}

// ToDomain converts ConversationModel to domain Conversation.
func (m *ConversationModel) ToDomain() *Conversation {
	if m == nil {
		return nil
	}
	return &Conversation{
		ID:          m.ID,
		MemberOneID: m.MemberOneID,
		MemberTwoID: m.MemberTwoID,
		MemberOne:   m.MemberOne.ToDomain(),
		MemberTwo:   m.MemberTwo.ToDomain(),
		CreatedAt:   m.CreatedAt,
	}
}

// DirectMessageModel is the GORM model for direct_messages table.
type DirectMessageModel struct {
	ID             string       `gorm:"type:varchar(26);primaryKey"`
	Content        string       `gorm:"type:text;not null"`
	FileURL        *string      `gorm:"type:text"`
	MemberID       string       `gorm:"type:varchar(36);index;not null"`
	ConversationID string       `gorm:"type:varchar(36);index;not null"`
	Member         *MemberModel `gorm:"foreignKey:MemberID"`
	CreatedAt      time.Time    `gorm:"autoCreateTime"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for DirectMessageModel.
func (DirectMessageModel) TableName() string {
	return "direct_messages"
}

// ToDomain converts DirectMessageModel to domain DirectMessage.
func (m *DirectMessageModel) ToDomain() *DirectMessage {
	return &DirectMessage{
		ID:             m.ID,
		Content:        m.Content,
		FileURL:        m.FileURL,
		MemberID:       m.MemberID,
		ConversationID: m.ConversationID,
		Member:         m.Member.ToDomain(),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// DirectMessageToModel converts domain DirectMessage to DirectMessageModel.
func DirectMessageToModel(d *DirectMessage) *DirectMessageModel {
	return &DirectMessageModel{
		ID:             d.ID,
		Content:        d.Content,
		FileURL:        d.FileURL,
		MemberID:       d.MemberID,
		ConversationID: d.ConversationID,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// Models lists every table this service migrates.
func Models() []interface{} {
	return []interface{}{
		&UserModel{},
		&MemberModel{},
		&ConversationModel{},
		&DirectMessageModel{},
	}
}
