package handlers

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Auth   *AuthHandler
	Task   *TaskHandler
	Chat   *ChatHandler
	Agent  *AgentHandler
	Health *HealthHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	serviceName string,
	users UserService,
	tokens TokenService,
	tasks TaskService,
	chat ChatService,
	agent AgentService,
	db *gorm.DB,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Auth:   NewAuthHandler(users, tokens, log),
		Task:   NewTaskHandler(tasks, log),
		Chat:   NewChatHandler(chat, log),
		Agent:  NewAgentHandler(agent, log),
		Health: NewHealthHandler(serviceName, db),
	}
}
