package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/choosenname/OneTeam/dm-service/internal/domain"
	"github.com/choosenname/OneTeam/pkg/log"
)

// GormConversationRepository implements ConversationRepository using GORM.
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GORM-based conversation repository.
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

func withMembers(db *gorm.DB) *gorm.DB {
	return db.Preload("MemberOne.User").Preload("MemberTwo.User")
}

// FindForMember retrieves a conversation the user belongs to.
func (r *GormConversationRepository) FindForMember(ctx context.Context, conversationID, userID string) (*domain.Conversation, error) {
	l := log.Ctx(ctx)

	memberIDs := r.db.Model(&domain.MemberModel{}).Select("id").Where("user_id = ?", userID)

	var model domain.ConversationModel
	err := withMembers(r.db.WithContext(ctx)).
		Where("id = ?", conversationID).
		Where(r.db.Where("member_one_id IN (?)", memberIDs).Or("member_two_id IN (?)", memberIDs)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		l.Error().Err(err).Str(log.FieldConversationID, conversationID).Msg("failed to find conversation for member")
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetByID retrieves a conversation by ID regardless of the caller.
func (r *GormConversationRepository) GetByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	return r.getByID(ctx, r.db, conversationID)
}

func (r *GormConversationRepository) getByID(ctx context.Context, db *gorm.DB, conversationID string) (*domain.Conversation, error) {
	var model domain.ConversationModel
	err := withMembers(db.WithContext(ctx)).First(&model, "id = ?", conversationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldConversationID, conversationID).Msg("failed to get conversation by id")
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBetween retrieves the conversation between two users in either member order.
func (r *GormConversationRepository) FindBetween(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	return r.findBetween(ctx, r.db, userA, userB)
}

func (r *GormConversationRepository) findBetween(ctx context.Context, db *gorm.DB, userA, userB string) (*domain.Conversation, error) {
	var model domain.ConversationModel
	err := withMembers(db.WithContext(ctx)).
		Joins("JOIN members m1 ON m1.id = conversations.member_one_id").
		Joins("JOIN members m2 ON m2.id = conversations.member_two_id").
		Where("(m1.user_id = ? AND m2.user_id = ?) OR (m1.user_id = ? AND m2.user_id = ?)", userA, userB, userB, userA).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create returns the conversation between userA and userB, creating it with
// both memberships when it does not exist yet.
func (r *GormConversationRepository) Create(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	l := log.Ctx(ctx)

	var conv *domain.Conversation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.findBetween(ctx, tx, userA, userB)
		if err == nil {
			conv = existing
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		conversationID := uuid.New().String()
		one := &domain.MemberModel{ID: uuid.New().String(), UserID: userA, ConversationID: conversationID}
		two := &domain.MemberModel{ID: uuid.New().String(), UserID: userB, ConversationID: conversationID}
		if err := tx.Omit(clause.Associations).Create([]*domain.MemberModel{one, two}).Error; err != nil {
			return fmt.Errorf("create members: %w", err)
		}

		model := &domain.ConversationModel{
			ID:          conversationID,
			MemberOneID: one.ID,
			MemberTwoID: two.ID,
		}
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return fmt.Errorf("create conversation: %w", err)
		}

		conv, err = r.getByID(ctx, tx, conversationID)
		return err
	})
	if err != nil {
		l.Error().Err(err).Msg("failed to get or create conversation")
		return nil, err
	}

	l.Debug().Str(log.FieldConversationID, conv.ID).Msg("conversation ready")
	return conv, nil
}

// CreateMessage inserts a message and returns it with its member and user loaded.
func (r *GormConversationRepository) CreateMessage(ctx context.Context, msg *domain.DirectMessage) (*domain.DirectMessage, error) {
	l := log.Ctx(ctx)

	if msg.ID == "" {
		msg.ID = ulid.Make().String()
	}

	model := domain.DirectMessageToModel(msg)
	var created domain.DirectMessageModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			l.Error().Err(err).Str(log.FieldConversationID, msg.ConversationID).Msg("failed to create message in db")
			return err
		}
		if err := tx.Preload("Member.User").First(&created, "id = ?", model.ID).Error; err != nil {
			l.Error().Err(err).Str(log.FieldMessageID, model.ID).Msg("failed to reload created message")
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Debug().Str(log.FieldMessageID, created.ID).Msg("message created in db")
	return created.ToDomain(), nil
}

// ListMessages pages through a conversation by message ID, newest first.
// Message IDs are ULIDs, so ID order is creation order.
func (r *GormConversationRepository) ListMessages(ctx context.Context, conversationID, cursor string, limit int) ([]*domain.DirectMessage, error) {
	l := log.Ctx(ctx)

	if limit < 1 {
		limit = 10
	}

	query := r.db.WithContext(ctx).
		Preload("Member.User").
		Where("conversation_id = ?", conversationID)
	if cursor != "" {
		query = query.Where("id < ?", cursor)
	}

	var models []domain.DirectMessageModel
	if err := query.Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		l.Error().Err(err).Str(log.FieldConversationID, conversationID).Msg("failed to list messages")
		return nil, err
	}

	messages := make([]*domain.DirectMessage, len(models))
	for i := range models {
		messages[i] = models[i].ToDomain()
	}
	return messages, nil
}
