package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasknest/internal/domain/agent"
	"tasknest/internal/domain/chat"
	"tasknest/internal/interfaces/httpserver/handlers"
	"tasknest/internal/interfaces/httpserver/middlewares"
)

type mockChatService struct {
	sendFunc func(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, message string) (*chat.SendResult, error)
	listFunc func(ctx context.Context, userID uuid.UUID) ([]chat.Conversation, error)
	getFunc  func(ctx context.Context, userID, conversationID uuid.UUID) (*chat.ConversationDetail, error)
}

func (m *mockChatService) Send(ctx context.Context, userID uuid.UUID, conversationID *uuid.UUID, message string) (*chat.SendResult, error) {
	return m.sendFunc(ctx, userID, conversationID, message)
}

func (m *mockChatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]chat.Conversation, error) {
	return m.listFunc(ctx, userID)
}

func (m *mockChatService) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*chat.ConversationDetail, error) {
	return m.getFunc(ctx, userID, conversationID)
}

func chatRouter(svc handlers.ChatService, userID uuid.UUID) *gin.Engine {
	h := handlers.NewChatHandler(svc, zerolog.Nop())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middlewares.SetAuthenticatedUser(c, userID)
		c.Next()
	})
	r.POST("/api/:user_id/chat", h.Send)
	r.GET("/api/:user_id/conversations", h.ListConversations)
	r.GET("/api/:user_id/conversations/:conversation_id", h.GetConversation)
	return r
}

func TestChatSend(t *testing.T) {
	userID := uuid.New()
	conversationID := uuid.New()
	svc := &mockChatService{
		sendFunc: func(_ context.Context, uid uuid.UUID, cid *uuid.UUID, message string) (*chat.SendResult, error) {
			assert.Equal(t, userID, uid)
			assert.Nil(t, cid)
			assert.Equal(t, "add milk", message)
			return &chat.SendResult{
				ConversationID: conversationID,
				Reply:          "added",
				Success:        true,
			}, nil
		},
	}
	r := chatRouter(svc, userID)

	rec := performJSON(r, http.MethodPost, "/api/"+userID.String()+"/chat", `{"message":"add milk"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body chat.SendResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, conversationID, body.ConversationID)
	assert.True(t, body.Success)
}

func TestChatSendExistingConversation(t *testing.T) {
	userID := uuid.New()
	conversationID := uuid.New()
	svc := &mockChatService{
		sendFunc: func(_ context.Context, _ uuid.UUID, cid *uuid.UUID, _ string) (*chat.SendResult, error) {
			require.NotNil(t, cid)
			assert.Equal(t, conversationID, *cid)
			return &chat.SendResult{ConversationID: *cid, Reply: "ok", Success: true}, nil
		},
	}
	r := chatRouter(svc, userID)

	rec := performJSON(r, http.MethodPost, "/api/"+userID.String()+"/chat",
		`{"message":"again","conversation_id":"`+conversationID.String()+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatGuard(t *testing.T) {
	r := chatRouter(&mockChatService{}, uuid.New())

	rec := performJSON(r, http.MethodPost, "/api/"+uuid.NewString()+"/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListConversations(t *testing.T) {
	userID := uuid.New()
	svc := &mockChatService{
		listFunc: func(_ context.Context, _ uuid.UUID) ([]chat.Conversation, error) {
			return []chat.Conversation{{ID: uuid.New(), UserID: userID, Title: "groceries"}}, nil
		},
	}
	r := chatRouter(svc, userID)

	rec := performJSON(r, http.MethodGet, "/api/"+userID.String()+"/conversations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Conversations []chat.Conversation `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Conversations, 1)
	assert.Equal(t, "groceries", body.Conversations[0].Title)
}

func TestGetConversationMalformedID(t *testing.T) {
	userID := uuid.New()
	r := chatRouter(&mockChatService{}, userID)

	rec := performJSON(r, http.MethodGet, "/api/"+userID.String()+"/conversations/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type mockAgentService struct {
	chatFunc func(ctx context.Context, userID uuid.UUID, message string, history []agent.HistoryMessage) *agent.Response
}

func (m *mockAgentService) Chat(ctx context.Context, userID uuid.UUID, message string, history []agent.HistoryMessage) *agent.Response {
	return m.chatFunc(ctx, userID, message, history)
}

func TestAgentChat(t *testing.T) {
	userID := uuid.New()
	svc := &mockAgentService{
		chatFunc: func(_ context.Context, uid uuid.UUID, message string, history []agent.HistoryMessage) *agent.Response {
			assert.Equal(t, userID, uid)
			assert.Equal(t, "what's on my list", message)
			require.Len(t, history, 1)
			return &agent.Response{Reply: "three tasks", Success: true}
		},
	}
	h := handlers.NewAgentHandler(svc, zerolog.Nop())

	r := gin.New()
	r.POST("/agents/chat", func(c *gin.Context) {
		middlewares.SetAuthenticatedUser(c, userID)
		h.Chat(c)
	})

	rec := performJSON(r, http.MethodPost, "/agents/chat",
		`{"message":"what's on my list","history":[{"role":"user","content":"earlier"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body agent.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "three tasks", body.Reply)
}

func TestAgentChatRejectsBadHistoryRole(t *testing.T) {
	h := handlers.NewAgentHandler(&mockAgentService{}, zerolog.Nop())
	r := gin.New()
	r.POST("/agents/chat", func(c *gin.Context) {
		middlewares.SetAuthenticatedUser(c, uuid.New())
		h.Chat(c)
	})

	rec := performJSON(r, http.MethodPost, "/agents/chat",
		`{"message":"hi","history":[{"role":"system","content":"x"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
