package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManager_AccessToken(t *testing.T) {
	t.Run("should round trip the identity claims", func(t *testing.T) {
		req := require.New(t)
		m, err := NewManager("secret", time.Hour, "oneteam")
		req.NoError(err)

		token, exp, err := m.GenerateAccessToken(Identity{UserID: "u1", Email: "a@b.c", Name: "Alice"})
		req.NoError(err)
		req.True(exp.After(time.Now()))

		claims, err := m.ValidateToken(token)
		req.NoError(err)
		req.Equal("u1", claims.UserID)
		req.Equal("a@b.c", claims.Email)
		req.Equal("Alice", claims.Name)
	})

	t.Run("should refuse an empty secret", func(t *testing.T) {
		req := require.New(t)
		_, err := NewManager("", time.Hour, "")
		req.ErrorIs(err, ErrMissingKey)
	})

	t.Run("should report expired tokens", func(t *testing.T) {
		req := require.New(t)
		m, err := NewManager("secret", time.Minute, "")
		req.NoError(err)

		// Given a token issued two hours ago
		m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := m.GenerateAccessToken(Identity{UserID: "u1"})
		req.NoError(err)

		// When it is validated now
		m.now = time.Now
		_, err = m.ValidateToken(token)

		// Then
		req.ErrorIs(err, ErrExpiredToken)
	})

	t.Run("should reject tokens signed with another secret", func(t *testing.T) {
		req := require.New(t)
		issuer, err := NewManager("one", time.Hour, "")
		req.NoError(err)
		verifier, err := NewManager("two", time.Hour, "")
		req.NoError(err)

		token, _, err := issuer.GenerateAccessToken(Identity{UserID: "u1"})
		req.NoError(err)

		_, err = verifier.ValidateToken(token)
		req.ErrorIs(err, ErrInvalidToken)
	})

	t.Run("should reject a foreign issuer", func(t *testing.T) {
		req := require.New(t)
		issuer, err := NewManager("secret", time.Hour, "someone-else")
		req.NoError(err)
		verifier, err := NewManager("secret", time.Hour, "oneteam")
		req.NoError(err)

		token, _, err := issuer.GenerateAccessToken(Identity{UserID: "u1"})
		req.NoError(err)

		_, err = verifier.ValidateToken(token)
		req.ErrorIs(err, ErrInvalidToken)
	})

	t.Run("should reject tokens without a user", func(t *testing.T) {
		req := require.New(t)
		m, err := NewManager("secret", time.Hour, "")
		req.NoError(err)

		token, _, err := m.GenerateAccessToken(Identity{})
		req.NoError(err)

		_, err = m.ValidateToken(token)
		req.ErrorIs(err, ErrInvalidToken)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		req := require.New(t)
		m, err := NewManager("secret", time.Hour, "")
		req.NoError(err)

		_, err = m.ValidateToken("not.a.token")
		req.ErrorIs(err, ErrInvalidToken)
	})
}
