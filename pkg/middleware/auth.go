package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/choosenname/OneTeam/pkg/jwt"
	"github.com/choosenname/OneTeam/pkg/response"
)

const (
	UserIDKey     = "user_id"
	EmailKey      = "email"
	UsernameKey   = "username"
	NameKey       = "name"
	ImageURLKey   = "image_url"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	TokenQueryKey = "token"
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware validates bearer tokens and stores the caller in the Gin context.
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Authenticate resolves the caller when a valid token is present and never
// aborts. Handlers answer anonymous requests themselves.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.resolve(c)
		c.Next()
	}
}

// RequireAuth aborts with 401 when no valid token is present.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.resolve(c) {
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context) bool {
	token := bearerToken(c)
	if token == "" {
		return false
	}

	claims, err := m.validator.ValidateToken(token)
	if err != nil {
		return false
	}

	c.Set(UserIDKey, claims.UserID)
	c.Set(EmailKey, claims.Email)
	c.Set(UsernameKey, claims.Username)
	c.Set(NameKey, claims.Name)
	c.Set(ImageURLKey, claims.ImageURL)
	return true
}

// bearerToken reads the Authorization header, falling back to the token
// query parameter that browser WebSocket clients have to use.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader(AuthHeaderKey); strings.HasPrefix(h, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, BearerPrefix))
	}
	return c.Query(TokenQueryKey)
}

// GetUserID extracts user ID from Gin context.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetUsername extracts username from Gin context.
func GetUsername(c *gin.Context) string {
	return c.GetString(UsernameKey)
}

// GetEmail extracts email from Gin context.
func GetEmail(c *gin.Context) string {
	return c.GetString(EmailKey)
}

// GetName extracts the display name from Gin context.
func GetName(c *gin.Context) string {
	return c.GetString(NameKey)
}

// GetImageURL extracts the avatar URL from Gin context.
func GetImageURL(c *gin.Context) string {
	return c.GetString(ImageURLKey)
}
