package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "tasknest/internal/domain/agent"
	"tasknest/internal/interfaces/httpserver/middlewares"
	"tasknest/internal/interfaces/httpserver/requests"
	"tasknest/internal/interfaces/httpserver/responses"
)

// AgentService runs one stateless agent turn.
type AgentService interface {
	Chat(ctx context.Context, userID uuid.UUID, message string, history []domain.HistoryMessage) *domain.Response
}

// AgentHandler exposes the stateless agent endpoint. Unlike /api/:user_id/chat
// nothing is persisted; the caller supplies its own history.
type AgentHandler struct {
	agent AgentService
	log   zerolog.Logger
}

// NewAgentHandler constructs the handler.
func NewAgentHandler(agent AgentService, log zerolog.Logger) *AgentHandler {
	return &AgentHandler{
		agent: agent,
		log:   log.With().Str("handler", "agent").Logger(),
	}
}

// Chat handles POST /agents/chat
// @Summary Run one agent turn without persistence
// @Tags Agent
// @Accept json
// @Produce json
// @Param request body requests.AgentChatRequest true "Message and optional history"
// @Success 200 {object} agent.Response
// @Failure 401 {object} responses.ErrorBody
// @Router /agents/chat [post]
func (h *AgentHandler) Chat(c *gin.Context) {
	userID, ok := middlewares.AuthenticatedUser(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "authentication required")
		return
	}

	var req requests.AgentChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "message is required")
		return
	}

	history := make([]domain.HistoryMessage, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, domain.HistoryMessage{Role: m.Role, Content: m.Content})
	}

	c.JSON(http.StatusOK, h.agent.Chat(c.Request.Context(), userID, req.Message, history))
}
