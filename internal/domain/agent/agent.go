package agent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"tasknest/internal/infrastructure/metrics"
)

const systemPrompt = `You are a task management assistant. You help the user ` +
	`manage their to-do list: create, list, update, complete and delete tasks ` +
	`using the tools provided. Confirm what you did in one or two short ` +
	`sentences. If a tool reports an error, explain it plainly instead of retrying forever.`

// Config tunes the agent loop.
type Config struct {
	Model        string
	MaxToolDepth int
	ToolTimeout  time.Duration
}

// Agent answers user messages, calling task tools as needed. The tool loop is
// bounded by MaxToolDepth rounds so a misbehaving model cannot spin forever.
type Agent struct {
	llm    LLMClient
	tools  *Toolset
	cfg    Config
	logger zerolog.Logger
}

// New creates an agent.
func New(llm LLMClient, tools *Toolset, cfg Config, logger zerolog.Logger) *Agent {
	if cfg.MaxToolDepth <= 0 {
		cfg.MaxToolDepth = 4
	}
	return &Agent{llm: llm, tools: tools, cfg: cfg, logger: logger}
}

// Chat runs one agent turn for userID. Provider failures are reported in the
// Response with Success false; a Go error only means the input was unusable.
func (a *Agent) Chat(ctx context.Context, userID uuid.UUID, message string, history []HistoryMessage) *Response {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, h := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	var records []ToolCallRecord

	for depth := 0; depth < a.cfg.MaxToolDepth; depth++ {
		resp, err := a.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    a.cfg.Model,
			Messages: messages,
			Tools:    a.tools.Definitions(),
		})
		if err != nil {
			a.logger.Error().Err(err).Msg("chat completion failed")
			return &Response{
				Reply:     "I could not reach the language model. Please try again later.",
				ToolCalls: records,
				Success:   false,
			}
		}
		if len(resp.Choices) == 0 {
			a.logger.Error().Msg("chat completion returned no choices")
			return &Response{
				Reply:     "I did not get a usable answer from the language model.",
				ToolCalls: records,
				Success:   false,
			}
		}

		choice := resp.Choices[0].Message
		if len(choice.ToolCalls) == 0 {
			return &Response{Reply: choice.Content, ToolCalls: records, Success: true}
		}

		messages = append(messages, choice)
		for _, call := range choice.ToolCalls {
			result := a.execute(ctx, userID, call)
			records = append(records, ToolCallRecord{
				Tool:      call.Function.Name,
				Arguments: call.Function.Arguments,
				Result:    result,
			})

			payload, err := json.Marshal(result)
			if err != nil {
				payload = []byte(`{"ok":false,"error":"result not serializable"}`)
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    string(payload),
				ToolCallID: call.ID,
			})
		}
	}

	a.logger.Warn().Int("max_depth", a.cfg.MaxToolDepth).Msg("tool loop exhausted")
	return &Response{
		Reply:     "I stopped after too many tool calls without reaching a final answer. Some of the work above may still have gone through.",
		ToolCalls: records,
		Success:   false,
	}
}

func (a *Agent) execute(ctx context.Context, userID uuid.UUID, call openai.ToolCall) Result {
	if a.cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.ToolTimeout)
		defer cancel()
	}
	result := a.tools.Execute(ctx, userID, call.Function.Name, call.Function.Arguments)
	outcome := "ok"
	if !result.OK {
		outcome = "error"
	}
	metrics.AgentToolCallsTotal.WithLabelValues(call.Function.Name, outcome).Inc()
	a.logger.Debug().
		Str("tool", call.Function.Name).
		Bool("ok", result.OK).
		Msg("tool executed")
	return result
}
