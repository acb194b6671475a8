package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tasknest/internal/domain/agent"
)

// SenderType identifies who authored a message.
type SenderType string

const (
	SenderUser  SenderType = "user"
	SenderAgent SenderType = "agent"
)

// MessageStatus tracks delivery of a message.
type MessageStatus string

const (
	StatusSent    MessageStatus = "sent"
	StatusPending MessageStatus = "pending"
	StatusError   MessageStatus = "error"
)

// Conversation groups the messages of one chat thread.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single chat turn. Agent messages carry the tool calls made
// while producing the reply and point at the user message they answer.
type Message struct {
	ID              uuid.UUID              `json:"id"`
	ConversationID  uuid.UUID              `json:"conversation_id"`
	ParentMessageID *uuid.UUID             `json:"parent_message_id,omitempty"`
	Sender          SenderType             `json:"sender"`
	Content         string                 `json:"content"`
	Status          MessageStatus          `json:"status"`
	ToolCalls       []agent.ToolCallRecord `json:"tool_calls,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// Repository persists conversations and their messages. Conversation lookups
// are owner-scoped.
type Repository interface {
	CreateConversation(ctx context.Context, c *Conversation) error
	FindConversation(ctx context.Context, userID, conversationID uuid.UUID) (*Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error)
	CreateMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]Message, error)
}
