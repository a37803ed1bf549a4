package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/choosenname/OneTeam/dm-service/internal/config"
	"github.com/choosenname/OneTeam/dm-service/internal/domain"
	"github.com/choosenname/OneTeam/dm-service/internal/hub"
	"github.com/choosenname/OneTeam/dm-service/internal/service"
	"github.com/choosenname/OneTeam/pkg/log"
	"github.com/choosenname/OneTeam/pkg/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub            *hub.Hub
	messages       service.DirectMessageService
	authMiddleware *middleware.AuthMiddleware
	wsCfg          config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, messages service.DirectMessageService, authMiddleware *middleware.AuthMiddleware, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:            h,
		messages:       messages,
		authMiddleware: authMiddleware,
		wsCfg:          wsCfg,
	}
}

func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/socket/io", h.authMiddleware.RequireAuth(), h.HandleWebSocket)
}

func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	userID := middleware.GetUserID(c)
	reqLogger := log.Ctx(c.Request.Context())

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		reqLogger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), userID, h.hub, conn, h.wsCfg)

	// The request context ends when this handler returns; the connection outlives it.
	connCtx := log.WithLogger(context.Background(), reqLogger.With().Str(log.FieldClientID, client.ID).Logger())

	if err := h.hub.Register(client); err != nil {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump(func(cl *hub.Client, message []byte) {
		h.handleFrame(connCtx, cl, message)
	})
}

func (h *WSHandler) handleFrame(ctx context.Context, client *hub.Client, message []byte) {
	var frame domain.ClientFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		client.SendFrame(domain.NewErrorFrame(domain.ErrCodeBadRequest, "Invalid message format"))
		return
	}

	switch frame.Type {
	case domain.FrameSubscribe:
		h.subscribe(ctx, client, frame.Key)

	case domain.FrameUnsubscribe:
		h.hub.Unsubscribe(client, frame.Key)
		client.SendFrame(&domain.KeyFrame{Type: domain.FrameUnsubscribed, Key: frame.Key})

	case domain.FramePing:
		client.SendFrame(map[string]string{"type": domain.FramePong})

	default:
		client.SendFrame(domain.NewErrorFrame(domain.ErrCodeBadRequest, "Unknown message type"))
	}
}

func (h *WSHandler) subscribe(ctx context.Context, client *hub.Client, key string) {
	l := log.Ctx(ctx)

	if key == "" {
		client.SendFrame(domain.NewErrorFrame(domain.ErrCodeBadRequest, "Key missing"))
		return
	}

	err := h.messages.AuthorizeSubscription(ctx, client.UserID, key)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidRoutingKey):
		client.SendFrame(domain.NewErrorFrame(domain.ErrCodeBadRequest, "Invalid key"))
		return
	case errors.Is(err, service.ErrConversationNotFound):
		client.SendFrame(domain.NewErrorFrame(domain.ErrCodeNotFound, MsgConversationNotFound))
		return
	default:
		l.Error().Err(err).Str(log.FieldRoutingKey, key).Msg("failed to authorize subscription")
		client.SendFrame(domain.NewErrorFrame(domain.ErrCodeInternalError, "Internal Error"))
		return
	}

	if !h.hub.Subscribe(client, key) {
		return
	}
	client.SendFrame(&domain.KeyFrame{Type: domain.FrameSubscribed, Key: key})
}
