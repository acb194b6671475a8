package requests

import (
	"github.com/google/uuid"
)

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ValidateTokenRequest checks a token without consuming it.
type ValidateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateTaskRequest creates a task.
type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// UpdateTaskRequest partially updates a task. Absent fields are untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Completed   *bool   `json:"completed"`
}

// CompleteTaskRequest sets or toggles completion. A nil Completed toggles.
type CompleteTaskRequest struct {
	Completed *bool `json:"completed"`
}

// ChatRequest sends one message to the assistant. A nil ConversationID
// starts a new conversation.
type ChatRequest struct {
	Message        string     `json:"message" binding:"required"`
	ConversationID *uuid.UUID `json:"conversation_id"`
}

// AgentChatMessage is one prior turn supplied by a stateless caller.
type AgentChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// AgentChatRequest runs one stateless agent turn: the caller supplies the
// history instead of a stored conversation.
type AgentChatRequest struct {
	Message string             `json:"message" binding:"required"`
	History []AgentChatMessage `json:"history"`
}
