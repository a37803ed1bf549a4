package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/choosenname/OneTeam/pkg/jwt"
)

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/me", mw, func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})
	return r
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Run("should set the user from a bearer header", func(t *testing.T) {
		req := require.New(t)
		manager, err := jwt.NewManager("secret", time.Hour, "")
		req.NoError(err)
		r := newTestRouter(NewAuthMiddleware(manager).Authenticate())

		token, _, err := manager.GenerateAccessToken(jwt.Identity{UserID: "u1"})
		req.NoError(err)

		httpReq := httptest.NewRequest(http.MethodGet, "/me", nil)
		httpReq.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httpReq)

		req.Equal(http.StatusOK, w.Code)
		req.Equal("u1", w.Body.String())
	})

	t.Run("should fall back to the token query parameter", func(t *testing.T) {
		req := require.New(t)
		manager, err := jwt.NewManager("secret", time.Hour, "")
		req.NoError(err)
		r := newTestRouter(NewAuthMiddleware(manager).Authenticate())

		token, _, err := manager.GenerateAccessToken(jwt.Identity{UserID: "u2"})
		req.NoError(err)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))

		req.Equal("u2", w.Body.String())
	})

	t.Run("should pass anonymous requests through", func(t *testing.T) {
		req := require.New(t)
		manager, err := jwt.NewManager("secret", time.Hour, "")
		req.NoError(err)
		r := newTestRouter(NewAuthMiddleware(manager).Authenticate())

		httpReq := httptest.NewRequest(http.MethodGet, "/me", nil)
		httpReq.Header.Set(AuthHeaderKey, BearerPrefix+"garbage")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httpReq)

		req.Equal(http.StatusOK, w.Code)
		req.Empty(w.Body.String())
	})
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	req := require.New(t)
	manager, err := jwt.NewManager("secret", time.Hour, "")
	req.NoError(err)
	r := newTestRouter(NewAuthMiddleware(manager).RequireAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	req.Equal(http.StatusUnauthorized, w.Code)
	req.JSONEq(`{"error":"Unauthorized"}`, w.Body.String())
}
