package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"tasknest/internal/domain/agent"
	"tasknest/internal/domain/chat"
)

// Conversation represents the database schema for chat threads
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(50);not null"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// ToDomain converts the entity to the domain model.
func (e *Conversation) ToDomain() *chat.Conversation {
	return &chat.Conversation{
		ID:        e.ID,
		UserID:    e.UserID,
		Title:     e.Title,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ConversationFromDomain converts a domain conversation to its entity.
func ConversationFromDomain(c *chat.Conversation) *Conversation {
	return &Conversation{
		ID:     c.ID,
		UserID: c.UserID,
		Title:  c.Title,
	}
}

// Message represents the database schema for chat messages. ToolCalls stores
// the agent's tool invocations as a JSON document.
type Message struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	ConversationID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	ParentMessageID *uuid.UUID     `gorm:"type:uuid"`
	Sender          string         `gorm:"type:varchar(10);not null"`
	Content         string         `gorm:"type:text;not null"`
	Status          string         `gorm:"type:varchar(10);not null;default:sent"`
	ToolCalls       datatypes.JSON `gorm:"type:jsonb"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// ToDomain converts the entity to the domain model. A tool-call document that
// no longer parses is dropped rather than failing the whole read.
func (e *Message) ToDomain() *chat.Message {
	var calls []agent.ToolCallRecord
	if len(e.ToolCalls) > 0 {
		_ = json.Unmarshal(e.ToolCalls, &calls)
	}
	return &chat.Message{
		ID:              e.ID,
		ConversationID:  e.ConversationID,
		ParentMessageID: e.ParentMessageID,
		Sender:          chat.SenderType(e.Sender),
		Content:         e.Content,
		Status:          chat.MessageStatus(e.Status),
		ToolCalls:       calls,
		CreatedAt:       e.CreatedAt,
	}
}

// MessageFromDomain converts a domain message to its entity. A message with
// no explicit status is stored as sent.
func MessageFromDomain(m *chat.Message) (*Message, error) {
	status := m.Status
	if status == "" {
		status = chat.StatusSent
	}
	entity := &Message{
		ID:              m.ID,
		ConversationID:  m.ConversationID,
		ParentMessageID: m.ParentMessageID,
		Sender:          string(m.Sender),
		Content:         m.Content,
		Status:          string(status),
	}
	if len(m.ToolCalls) > 0 {
		raw, err := json.Marshal(m.ToolCalls)
		if err != nil {
			return nil, err
		}
		entity.ToolCalls = datatypes.JSON(raw)
	}
	return entity, nil
}
