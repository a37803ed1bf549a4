package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/choosenname/OneTeam/dm-service/internal/domain"
	"github.com/choosenname/OneTeam/dm-service/internal/identity"
	"github.com/choosenname/OneTeam/dm-service/internal/service"
	"github.com/choosenname/OneTeam/pkg/log"
	"github.com/choosenname/OneTeam/pkg/middleware"
	"github.com/choosenname/OneTeam/pkg/response"
)

const (
	MsgConversationIDMissing = "Conversation ID missing"
	MsgContentMissing        = "Content missing"
	MsgConversationNotFound  = "Conversation not found"
	MsgMemberNotFound        = "Member not found"
	MsgUserNotFound          = "User not found"
	MsgUserIDMissing         = "User ID missing"
	MsgSameUser              = "Cannot start a conversation with yourself"
)

// Handler handles HTTP requests for direct messages.
type Handler struct {
	messages       service.DirectMessageService
	profiles       service.ProfileService
	identity       identity.Resolver
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	messages service.DirectMessageService,
	profiles service.ProfileService,
	resolver identity.Resolver,
	authMiddleware *middleware.AuthMiddleware,
) *Handler {
	return &Handler{
		messages:       messages,
		profiles:       profiles,
		identity:       resolver,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		// Every method reaches SendDirectMessage so it can answer 405 itself.
		api.Any("/socket/direct-messages", h.authMiddleware.Authenticate(), h.SendDirectMessage)

		api.GET("/direct-messages", h.authMiddleware.Authenticate(), h.ListDirectMessages)
		api.POST("/conversations", h.authMiddleware.Authenticate(), h.GetOrCreateConversation)
		api.POST("/profile", h.authMiddleware.RequireAuth(), h.EnsureProfile)
	}

	r.GET("/health", h.HealthCheck)
}

// SendDirectMessage creates a message in a conversation the caller belongs to
// and publishes it to the conversation's subscribers.
func (h *Handler) SendDirectMessage(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		response.MethodNotAllowed(c)
		return
	}

	ctx := c.Request.Context()

	user, err := h.identity.CurrentUser(c)
	if err != nil {
		h.internalError(c, err, service.LogTagSend)
		return
	}
	if user == nil {
		response.Unauthorized(c)
		return
	}

	conversationID := c.Query("conversationId")
	if conversationID == "" {
		response.BadRequest(c, MsgConversationIDMissing)
		return
	}

	// An empty or malformed body is reported the same way as a missing content field.
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		response.BadRequest(c, MsgContentMissing)
		return
	}

	msg, err := h.messages.SendDirectMessage(ctx, user.ID, conversationID, &req)
	if err != nil {
		h.serviceError(c, err, service.LogTagSend)
		return
	}

	response.Success(c, msg)
}

// ListDirectMessages returns one page of a conversation's history.
func (h *Handler) ListDirectMessages(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.identity.CurrentUser(c)
	if err != nil {
		h.internalError(c, err, "[DIRECT_MESSAGES_GET]")
		return
	}
	if user == nil {
		response.Unauthorized(c)
		return
	}

	conversationID := c.Query("conversationId")
	if conversationID == "" {
		response.BadRequest(c, MsgConversationIDMissing)
		return
	}

	page, err := h.messages.ListDirectMessages(ctx, user.ID, conversationID, c.Query("cursor"))
	if err != nil {
		h.serviceError(c, err, "[DIRECT_MESSAGES_GET]")
		return
	}

	response.Success(c, page)
}

// GetOrCreateConversation opens the conversation between the caller and another user.
func (h *Handler) GetOrCreateConversation(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.identity.CurrentUser(c)
	if err != nil {
		h.internalError(c, err, "[CONVERSATIONS_POST]")
		return
	}
	if user == nil {
		response.Unauthorized(c)
		return
	}

	var req domain.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, MsgUserIDMissing)
		return
	}

	conv, err := h.messages.GetOrCreateConversation(ctx, user.ID, req.UserID)
	if err != nil {
		h.serviceError(c, err, "[CONVERSATIONS_POST]")
		return
	}

	response.Success(c, conv)
}

// EnsureProfile creates the caller's profile from the token claims.
func (h *Handler) EnsureProfile(c *gin.Context) {
	ctx := c.Request.Context()

	name := middleware.GetName(c)
	if name == "" {
		name = middleware.GetUsername(c)
	}

	profile, err := h.profiles.EnsureProfile(ctx, &domain.User{
		ID:       middleware.GetUserID(c),
		Name:     name,
		ImageURL: middleware.GetImageURL(c),
		Email:    middleware.GetEmail(c),
	})
	if err != nil {
		h.serviceError(c, err, "[PROFILE_POST]")
		return
	}

	response.Success(c, profile)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// serviceError maps service errors to their fixed responses. Anything
// unrecognised is logged under tag and answered with 500.
func (h *Handler) serviceError(c *gin.Context, err error, tag string) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		response.Unauthorized(c)
	case errors.Is(err, service.ErrMissingConversationID):
		response.BadRequest(c, MsgConversationIDMissing)
	case errors.Is(err, service.ErrMissingContent):
		response.BadRequest(c, MsgContentMissing)
	case errors.Is(err, service.ErrConversationNotFound):
		response.NotFound(c, MsgConversationNotFound)
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, MsgMemberNotFound)
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, MsgUserNotFound)
	case errors.Is(err, service.ErrSameUser):
		response.BadRequest(c, MsgSameUser)
	default:
		h.internalError(c, err, tag)
	}
}

func (h *Handler) internalError(c *gin.Context, err error, tag string) {
	l := log.Ctx(c.Request.Context())
	l.Error().Err(err).Str(log.FieldTag, tag).Msg(tag)
	response.InternalError(c)
}
