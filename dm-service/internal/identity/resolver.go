//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=../mocks/mock_resolver.go -package=mocks
package identity

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/choosenname/OneTeam/dm-service/internal/domain"
	"github.com/choosenname/OneTeam/dm-service/internal/repository"
	"github.com/choosenname/OneTeam/pkg/middleware"
)

// Resolver maps a request to the profile of its caller.
type Resolver interface {
	// CurrentUser returns (nil, nil) when the request has no usable identity.
	CurrentUser(c *gin.Context) (*domain.User, error)
}

type profileResolver struct {
	users repository.UserRepository
}

// NewResolver resolves the caller from the token claims set by
// middleware.AuthMiddleware, then loads the matching profile.
func NewResolver(users repository.UserRepository) Resolver {
	return &profileResolver{users: users}
}

func (r *profileResolver) CurrentUser(c *gin.Context) (*domain.User, error) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return nil, nil
	}

	user, err := r.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
