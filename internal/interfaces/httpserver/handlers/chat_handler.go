package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "tasknest/internal/domain/chat"
	"tasknest/internal/infrastructure/auth"
	"tasknest/internal/interfaces/httpserver/middlewares"
	"tasknest/internal/interfaces/httpserver/requests"
	"tasknest/internal/interfaces/httpserver/responses"
)

// ChatService is the slice of the chat domain the handler needs.
type ChatService interface {
	Send(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, message string) (*domain.SendResult, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error)
	GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*domain.ConversationDetail, error)
}

// ChatHandler exposes the conversational endpoints under /api/:user_id.
type ChatHandler struct {
	service ChatService
	log     zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service ChatService, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// Send handles POST /api/:user_id/chat
// @Summary Send a chat message to the assistant
// @Tags Chat
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param request body requests.ChatRequest true "Message"
// @Success 200 {object} chat.SendResult
// @Failure 403 {object} responses.ErrorBody
// @Router /api/{user_id}/chat [post]
func (h *ChatHandler) Send(c *gin.Context) {
	userID, ok := h.authorize(c)
	if !ok {
		return
	}

	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "message is required")
		return
	}

	result, err := h.service.Send(c.Request.Context(), userID, req.ConversationID, req.Message)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListConversations handles GET /api/:user_id/conversations
// @Summary List conversations
// @Tags Chat
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]any
// @Router /api/{user_id}/conversations [get]
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := h.authorize(c)
	if !ok {
		return
	}

	conversations, err := h.service.ListConversations(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetConversation handles GET /api/:user_id/conversations/:conversation_id
// @Summary Get a conversation with its messages
// @Tags Chat
// @Produce json
// @Param user_id path string true "User ID"
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} chat.ConversationDetail
// @Failure 404 {object} responses.ErrorBody
// @Router /api/{user_id}/conversations/{conversation_id} [get]
func (h *ChatHandler) GetConversation(c *gin.Context) {
	userID, ok := h.authorize(c)
	if !ok {
		return
	}

	conversationID, err := uuid.Parse(c.Param("conversation_id"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "INVALID_CONVERSATION_ID_FORMAT",
			"conversation id in path is not a valid UUID")
		return
	}

	detail, err := h.service.GetConversation(c.Request.Context(), userID, conversationID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ChatHandler) authorize(c *gin.Context) (uuid.UUID, bool) {
	authenticated, ok := middlewares.AuthenticatedUser(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "authentication required")
		return uuid.Nil, false
	}
	userID, err := auth.AuthorizeOwner(authenticated, c.Param("user_id"))
	if err != nil {
		responses.HandleError(c, err)
		return uuid.Nil, false
	}
	return userID, true
}
