package agent

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// LLMClient is the slice of the chat completion API the agent needs.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Result is the outcome of a single tool execution. Exactly one of Data and
// Error is meaningful, selected by OK.
type Result struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Ok wraps a successful tool result.
func Ok(data any) Result {
	return Result{OK: true, Data: data}
}

// Errf wraps a failed tool result.
func Errf(format string, args ...any) Result {
	return Result{OK: false, Error: fmt.Sprintf(format, args...)}
}

// ToolCallRecord captures one tool invocation for persistence and for the
// API response, so clients can show what the agent did on their behalf.
type ToolCallRecord struct {
	Tool      string `json:"tool"`
	Arguments string `json:"arguments"`
	Result    Result `json:"result"`
}

// HistoryMessage is one prior turn of the conversation.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	// RoleUser and RoleAssistant mirror the chat completion roles.
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// Response is the agent's answer to one user message.
type Response struct {
	Reply     string           `json:"reply"`
	ToolCalls []ToolCallRecord `json:"tool_calls,omitempty"`
	Success   bool             `json:"success"`
}
