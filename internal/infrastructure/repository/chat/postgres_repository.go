package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "tasknest/internal/domain/chat"
	"tasknest/internal/infrastructure/database/entities"
	"tasknest/internal/utils/apierrors"
)

// PostgresRepository provides persistence for conversations and messages.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateConversation inserts a new conversation record.
func (r *PostgresRepository) CreateConversation(ctx context.Context, c *domain.Conversation) error {
	entity := entities.ConversationFromDomain(c)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"CONVERSATION_CREATE_FAILED", "failed to create conversation", err)
	}
	c.CreatedAt = entity.CreatedAt
	c.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindConversation fetches a conversation owned by userID.
func (r *PostgresRepository) FindConversation(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error) {
	var entity entities.Conversation
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", conversationID, userID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.New(apierrors.LayerRepository, apierrors.TypeNotFound,
				"CONVERSATION_NOT_FOUND", "conversation not found", err)
		}
		return nil, apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"CONVERSATION_QUERY_FAILED", "failed to query conversation", err)
	}
	return entity.ToDomain(), nil
}

// ListConversations returns userID's conversations, most recently active
// first.
func (r *PostgresRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	var rows []entities.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"CONVERSATION_QUERY_FAILED", "failed to list conversations", err)
	}

	conversations := make([]domain.Conversation, 0, len(rows))
	for i := range rows {
		conversations = append(conversations, *rows[i].ToDomain())
	}
	return conversations, nil
}

// CreateMessage inserts a chat message and touches its conversation so the
// list ordering reflects recent activity.
func (r *PostgresRepository) CreateMessage(ctx context.Context, m *domain.Message) error {
	entity, err := entities.MessageFromDomain(m)
	if err != nil {
		return apierrors.New(apierrors.LayerRepository, apierrors.TypeInternal,
			"MESSAGE_ENCODE_FAILED", "failed to encode message", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return err
		}
		return tx.Model(&entities.Conversation{}).
			Where("id = ?", m.ConversationID).
			Update("updated_at", gorm.Expr("NOW()")).Error
	})
	if err != nil {
		return apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"MESSAGE_CREATE_FAILED", "failed to create message", err)
	}
	m.CreatedAt = entity.CreatedAt
	return nil
}

// ListMessages returns a conversation's messages oldest first.
func (r *PostgresRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	var rows []entities.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"MESSAGE_QUERY_FAILED", "failed to list messages", err)
	}

	messages := make([]domain.Message, 0, len(rows))
	for i := range rows {
		messages = append(messages, *rows[i].ToDomain())
	}
	return messages, nil
}
