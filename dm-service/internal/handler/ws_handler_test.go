package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/choosenname/OneTeam/dm-service/internal/config"
	"github.com/choosenname/OneTeam/dm-service/internal/domain"
	"github.com/choosenname/OneTeam/dm-service/internal/hub"
	"github.com/choosenname/OneTeam/dm-service/internal/mocks"
	"github.com/choosenname/OneTeam/dm-service/internal/service"
	"github.com/choosenname/OneTeam/pkg/jwt"
	"github.com/choosenname/OneTeam/pkg/middleware"
)

type wsFixture struct {
	server   *httptest.Server
	hub      *hub.Hub
	messages *mocks.MockDirectMessageService
	tokens   *jwt.Manager
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	wsCfg := config.WebSocketConfig{
		PingInterval:   time.Minute,
		PongWait:       2 * time.Minute,
		WriteWait:      time.Second,
		MaxMessageSize: 4096,
		SendBuffer:     16,
	}

	ctrl := gomock.NewController(t)
	tokens, err := jwt.NewManager("secret", time.Hour, "")
	require.NoError(t, err)

	h := hub.NewHub(wsCfg)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	messages := mocks.NewMockDirectMessageService(ctrl)
	r := gin.New()
	NewWSHandler(h, messages, middleware.NewAuthMiddleware(tokens), wsCfg).RegisterRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	return &wsFixture{server: server, hub: h, messages: messages, tokens: tokens}
}

func (f *wsFixture) dial(t *testing.T, userID string) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/api/socket/io"
	if userID != "" {
		token, _, err := f.tokens.GenerateAccessToken(jwt.Identity{UserID: userID})
		require.NoError(t, err)
		url += "?token=" + token
	}
	return websocket.DefaultDialer.Dial(url, nil)
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(v))
}

func TestWSHandler(t *testing.T) {
	t.Run("should refuse the upgrade without a token", func(t *testing.T) {
		req := require.New(t)
		f := newWSFixture(t)

		_, resp, err := f.dial(t, "")

		req.Error(err)
		req.NotNil(resp)
		req.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("should deliver published messages to an authorized subscriber", func(t *testing.T) {
		req := require.New(t)
		f := newWSFixture(t)
		f.messages.EXPECT().AuthorizeSubscription(gomock.Any(), "bob", "chat:c1:messages").Return(nil).Times(1)

		conn, _, err := f.dial(t, "bob")
		req.NoError(err)
		defer conn.Close()

		// Given
		req.NoError(conn.WriteJSON(domain.ClientFrame{Type: domain.FrameSubscribe, Key: "chat:c1:messages"}))
		var ack domain.KeyFrame
		readJSON(t, conn, &ack)
		req.Equal(domain.FrameSubscribed, ack.Type)
		req.Equal("chat:c1:messages", ack.Key)

		// When
		msg := &domain.DirectMessage{ID: "01J", Content: "hello", ConversationID: "c1", MemberID: "m1"}
		req.NoError(f.hub.Publish(context.Background(), "chat:c1:messages", msg))
		req.NoError(f.hub.Publish(context.Background(), "chat:c2:messages", msg))

		// Then
		var event domain.EventFrame
		readJSON(t, conn, &event)
		req.Equal(domain.FrameEvent, event.Type)
		req.Equal("chat:c1:messages", event.Key)
		req.Contains(string(event.Data), `"content":"hello"`)

		req.NoError(conn.WriteJSON(domain.ClientFrame{Type: domain.FramePing}))
		var pong map[string]string
		readJSON(t, conn, &pong)
		req.Equal(domain.FramePong, pong["type"])
	})

	t.Run("should refuse subscriptions to other people's conversations", func(t *testing.T) {
		req := require.New(t)
		f := newWSFixture(t)
		f.messages.EXPECT().AuthorizeSubscription(gomock.Any(), "mallory", "chat:c1:messages").
			Return(service.ErrConversationNotFound).Times(1)

		conn, _, err := f.dial(t, "mallory")
		req.NoError(err)
		defer conn.Close()

		req.NoError(conn.WriteJSON(domain.ClientFrame{Type: domain.FrameSubscribe, Key: "chat:c1:messages"}))

		var frame domain.ErrorFrame
		readJSON(t, conn, &frame)
		req.Equal(domain.FrameError, frame.Type)
		req.Equal(domain.ErrCodeNotFound, frame.Code)
		req.Equal(0, f.hub.SubscriberCount("chat:c1:messages"))
	})

	t.Run("should reject malformed frames and keys", func(t *testing.T) {
		req := require.New(t)
		f := newWSFixture(t)
		f.messages.EXPECT().AuthorizeSubscription(gomock.Any(), "bob", "lobby").
			Return(service.ErrInvalidRoutingKey).Times(1)

		conn, _, err := f.dial(t, "bob")
		req.NoError(err)
		defer conn.Close()

		for _, raw := range []string{`not json`, `{"type":"dance"}`, `{"type":"subscribe"}`, `{"type":"subscribe","key":"lobby"}`} {
			req.NoError(conn.WriteMessage(websocket.TextMessage, []byte(raw)))

			var frame domain.ErrorFrame
			readJSON(t, conn, &frame)
			req.Equal(domain.ErrCodeBadRequest, frame.Code, raw)
		}
	})

	t.Run("should stop delivering after unsubscribe", func(t *testing.T) {
		req := require.New(t)
		f := newWSFixture(t)
		f.messages.EXPECT().AuthorizeSubscription(gomock.Any(), "bob", "chat:c1:messages").Return(nil).Times(1)

		conn, _, err := f.dial(t, "bob")
		req.NoError(err)
		defer conn.Close()

		req.NoError(conn.WriteJSON(domain.ClientFrame{Type: domain.FrameSubscribe, Key: "chat:c1:messages"}))
		var ack domain.KeyFrame
		readJSON(t, conn, &ack)

		req.NoError(conn.WriteJSON(domain.ClientFrame{Type: domain.FrameUnsubscribe, Key: "chat:c1:messages"}))
		readJSON(t, conn, &ack)
		req.Equal(domain.FrameUnsubscribed, ack.Type)
		req.Equal(0, f.hub.SubscriberCount("chat:c1:messages"))
	})
}
