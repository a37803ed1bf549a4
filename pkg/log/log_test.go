package log

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	req := require.New(t)

	req.Equal(zerolog.DebugLevel, ParseLevel("DEBUG"))
	req.Equal(zerolog.WarnLevel, ParseLevel("warning"))
	req.Equal(zerolog.WarnLevel, ParseLevel(" warn "))
	req.Equal(zerolog.Disabled, ParseLevel("off"))
	req.Equal(zerolog.InfoLevel, ParseLevel(""))
	req.Equal(zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestNew(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer

	logger := New(Config{Level: "warn", ServiceName: "dm-service", Output: &buf})
	logger.Info().Msg("dropped")
	logger.Warn().Str(FieldConversationID, "c1").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	req.Len(lines, 1)

	var entry map[string]any
	req.NoError(json.Unmarshal([]byte(lines[0]), &entry))
	req.Equal("dm-service", entry[FieldService])
	req.Equal("c1", entry[FieldConversationID])
	req.Equal("kept", entry["message"])
}

func TestCtx(t *testing.T) {
	t.Run("should fall back to the global logger", func(t *testing.T) {
		req := require.New(t)
		l := Ctx(context.Background())
		req.Equal(L().GetLevel(), l.GetLevel())
	})

	t.Run("should carry extra fields through the context", func(t *testing.T) {
		req := require.New(t)
		var buf bytes.Buffer

		ctx := WithLogger(context.Background(), New(Config{Output: &buf}))
		ctx = WithStr(ctx, FieldClientID, "client-1")
		l := Ctx(ctx)
		l.Info().Msg("hello")

		req.Contains(buf.String(), `"client_id":"client-1"`)
	})
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("should echo the request id and log the outcome", func(t *testing.T) {
		req := require.New(t)
		var buf bytes.Buffer

		r := gin.New()
		r.Use(GinMiddleware(New(Config{Output: &buf})))
		r.GET("/missing", func(c *gin.Context) {
			c.Set(FieldUserID, "u1")
			l := Ctx(c.Request.Context())
			l.Info().Msg("inside")
			c.Status(http.StatusNotFound)
		})

		w := httptest.NewRecorder()
		rq := httptest.NewRequest(http.MethodGet, "/missing", nil)
		rq.Header.Set(HeaderRequestID, "req-42")
		r.ServeHTTP(w, rq)

		req.Equal("req-42", w.Header().Get(HeaderRequestID))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		req.Len(lines, 2)
		req.Contains(lines[0], `"request_id":"req-42"`)

		var done map[string]any
		req.NoError(json.Unmarshal([]byte(lines[1]), &done))
		req.Equal("warn", done["level"])
		req.Equal(float64(http.StatusNotFound), done[FieldStatus])
		req.Equal("u1", done[FieldUserID])
	})

	t.Run("should generate a request id when none is sent", func(t *testing.T) {
		req := require.New(t)

		r := gin.New()
		r.Use(GinMiddleware(New(Config{Level: "disabled"})))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		req.Len(w.Header().Get(HeaderRequestID), 36)
	})
}
