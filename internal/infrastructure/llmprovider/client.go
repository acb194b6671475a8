package llmprovider

import (
	openai "github.com/sashabaranov/go-openai"
)

// Config selects the chat completion backend.
type Config struct {
	APIKey  string
	BaseURL string
}

// NewClient builds an OpenAI-compatible chat completion client. BaseURL lets
// deployments point at a compatible self-hosted endpoint.
func NewClient(cfg Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}
