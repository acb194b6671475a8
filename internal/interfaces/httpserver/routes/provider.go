package routes

import (
	"github.com/gin-gonic/gin"

	"tasknest/internal/interfaces/httpserver/handlers"
)

// Provider coordinates all route registrations.
type Provider struct {
	handlers *handlers.Provider
}

// NewProvider constructs the route provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{handlers: handlerProvider}
}

// Register attaches all available routes to the gin engine.
func (p *Provider) Register(engine *gin.Engine) {
	p.registerAuthRoutes(engine)
	p.registerAPIRoutes(engine)
	p.registerAgentRoutes(engine)
}

func (p *Provider) registerAuthRoutes(engine *gin.Engine) {
	auth := engine.Group("/auth")
	{
		auth.POST("/register", p.handlers.Auth.Register)
		auth.POST("/login", p.handlers.Auth.Login)
		auth.POST("/validate-token", p.handlers.Auth.ValidateToken)
		auth.POST("/refresh-token", p.handlers.Auth.RefreshToken)
		auth.POST("/logout", p.handlers.Auth.Logout)
		auth.GET("/me", p.handlers.Auth.Me)
	}
}

func (p *Provider) registerAPIRoutes(engine *gin.Engine) {
	api := engine.Group("/api/:user_id")
	{
		api.POST("/tasks", p.handlers.Task.Create)
		api.GET("/tasks", p.handlers.Task.List)
		api.GET("/tasks/:task_id", p.handlers.Task.Get)
		api.PUT("/tasks/:task_id", p.handlers.Task.Update)
		api.PATCH("/tasks/:task_id/complete", p.handlers.Task.Complete)
		api.DELETE("/tasks/:task_id", p.handlers.Task.Delete)

		api.POST("/chat", p.handlers.Chat.Send)
		api.GET("/conversations", p.handlers.Chat.ListConversations)
		api.GET("/conversations/:conversation_id", p.handlers.Chat.GetConversation)
	}
}

func (p *Provider) registerAgentRoutes(engine *gin.Engine) {
	agents := engine.Group("/agents")
	{
		agents.POST("/chat", p.handlers.Agent.Chat)
	}
}
