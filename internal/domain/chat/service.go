package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"tasknest/internal/domain/agent"
	"tasknest/internal/utils/apierrors"
)

const maxTitleLength = 50

// Agent is the conversational backend the chat service delegates to.
type Agent interface {
	Chat(ctx context.Context, userID uuid.UUID, message string, history []agent.HistoryMessage) *agent.Response
}

// SendResult is the outcome of one chat turn.
type SendResult struct {
	ConversationID uuid.UUID              `json:"conversation_id"`
	Reply          string                 `json:"reply"`
	ToolCalls      []agent.ToolCallRecord `json:"tool_calls,omitempty"`
	Success        bool                   `json:"success"`
}

// ConversationDetail is a conversation with its full message history.
type ConversationDetail struct {
	Conversation
	Messages []Message `json:"messages"`
}

// Service runs chat turns: it resolves the conversation, replays history to
// the agent, and persists both sides of the exchange.
type Service struct {
	repo  Repository
	agent Agent
}

// NewService creates a chat service.
func NewService(repo Repository, a Agent) *Service {
	return &Service{repo: repo, agent: a}
}

// Send handles one user message. A nil conversationID starts a new
// conversation titled after the message.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, message string) (*SendResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apierrors.New(apierrors.LayerDomain, apierrors.TypeValidation,
			"EMPTY_MESSAGE", "message must not be empty", nil)
	}

	conv, history, err := s.resolveConversation(ctx, userID, conversationID, message)
	if err != nil {
		return nil, err
	}

	resp := s.agent.Chat(ctx, userID, message, history)

	userMsg := &Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Sender:         SenderUser,
		Content:        message,
		Status:         StatusSent,
	}
	if err := s.repo.CreateMessage(ctx, userMsg); err != nil {
		return nil, err
	}
	agentStatus := StatusSent
	if !resp.Success {
		agentStatus = StatusError
	}
	agentMsg := &Message{
		ID:              uuid.New(),
		ConversationID:  conv.ID,
		ParentMessageID: &userMsg.ID,
		Sender:          SenderAgent,
		Content:         resp.Reply,
		Status:          agentStatus,
		ToolCalls:       resp.ToolCalls,
	}
	if err := s.repo.CreateMessage(ctx, agentMsg); err != nil {
		return nil, err
	}

	return &SendResult{
		ConversationID: conv.ID,
		Reply:          resp.Reply,
		ToolCalls:      resp.ToolCalls,
		Success:        resp.Success,
	}, nil
}

// ListConversations returns the caller's conversations, most recent first.
func (s *Service) ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

// GetConversation returns one conversation with its messages.
func (s *Service) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*ConversationDetail, error) {
	conv, err := s.repo.FindConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	return &ConversationDetail{Conversation: *conv, Messages: messages}, nil
}

func (s *Service) resolveConversation(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, message string) (*Conversation, []agent.HistoryMessage, error) {
	if conversationID == nil {
		conv := &Conversation{
			ID:     uuid.New(),
			UserID: userID,
			Title:  titleFrom(message),
		}
		if err := s.repo.CreateConversation(ctx, conv); err != nil {
			return nil, nil, err
		}
		return conv, nil, nil
	}

	conv, err := s.repo.FindConversation(ctx, userID, *conversationID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.repo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, nil, err
	}

	history := make([]agent.HistoryMessage, 0, len(messages))
	for _, m := range messages {
		role := agent.RoleUser
		if m.Sender == SenderAgent {
			role = agent.RoleAssistant
		}
		history = append(history, agent.HistoryMessage{Role: role, Content: m.Content})
	}
	return conv, history, nil
}

func titleFrom(message string) string {
	runes := []rune(message)
	if len(runes) <= maxTitleLength {
		return message
	}
	return string(runes[:maxTitleLength-3]) + "..."
}
