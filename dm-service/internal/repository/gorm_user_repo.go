package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/choosenname/OneTeam/dm-service/internal/domain"
	"github.com/choosenname/OneTeam/pkg/log"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByID retrieves a user by ID.
func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var model domain.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUserID, id).Msg("failed to get user by id")
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert inserts the profile or refreshes its name, image and email.
func (r *GormUserRepository) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	l := log.Ctx(ctx)

	model := domain.UserToModel(user)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "image_url", "email", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to upsert user")
		return nil, err
	}

	return r.GetByID(ctx, user.ID)
}
