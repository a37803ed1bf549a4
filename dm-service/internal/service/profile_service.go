package service

import (
	"context"
	"fmt"

	"github.com/choosenname/OneTeam/dm-service/internal/audit"
	"github.com/choosenname/OneTeam/dm-service/internal/domain"
	"github.com/choosenname/OneTeam/dm-service/internal/repository"
)

type profileServiceImpl struct {
	users repository.UserRepository
}

func NewProfileService(users repository.UserRepository) ProfileService {
	return &profileServiceImpl{users: users}
}

// EnsureProfile creates the caller's profile or refreshes it from the
// latest token claims.
func (s *profileServiceImpl) EnsureProfile(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || user.ID == "" {
		return nil, ErrUnauthorized
	}
	if user.Name == "" {
		user.Name = user.Email
	}

	saved, err := s.users.Upsert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	audit.Log(ctx, audit.ActionUpsertProfile, saved.ID, "profile ensured")
	return saved, nil
}
