package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasknest/internal/domain/user"
	"tasknest/internal/infrastructure/auth"
	"tasknest/internal/interfaces/httpserver/handlers"
	"tasknest/internal/interfaces/httpserver/middlewares"
	"tasknest/internal/utils/apierrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockUserService struct {
	registerFunc     func(ctx context.Context, email, username, password string) (*user.User, error)
	authenticateFunc func(ctx context.Context, email, password string) (*user.User, error)
	getFunc          func(ctx context.Context, id uuid.UUID) (*user.User, error)
}

func (m *mockUserService) Register(ctx context.Context, email, username, password string) (*user.User, error) {
	return m.registerFunc(ctx, email, username, password)
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	return m.authenticateFunc(ctx, email, password)
}

func (m *mockUserService) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return m.getFunc(ctx, id)
}

type mockTokenService struct {
	issueFunc   func(userID uuid.UUID) (*auth.TokenPair, error)
	verifyFunc  func(token string) (uuid.UUID, error)
	refreshFunc func(refreshToken string) (*auth.TokenPair, error)
}

func (m *mockTokenService) IssuePair(userID uuid.UUID) (*auth.TokenPair, error) {
	return m.issueFunc(userID)
}

func (m *mockTokenService) VerifyAccess(token string) (uuid.UUID, error) {
	return m.verifyFunc(token)
}

func (m *mockTokenService) Refresh(refreshToken string) (*auth.TokenPair, error) {
	return m.refreshFunc(refreshToken)
}

func testPair() *auth.TokenPair {
	return &auth.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "bearer",
		ExpiresIn:    3600,
	}
}

func performJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func authRouter(users handlers.UserService, tokens handlers.TokenService) *gin.Engine {
	h := handlers.NewAuthHandler(users, tokens, zerolog.Nop())
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/validate-token", h.ValidateToken)
	r.POST("/auth/refresh-token", h.RefreshToken)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.Me)
	return r
}

func TestRegisterReturnsUserAndTokens(t *testing.T) {
	userID := uuid.New()
	users := &mockUserService{
		registerFunc: func(_ context.Context, email, username, password string) (*user.User, error) {
			assert.Equal(t, "alice@example.com", email)
			assert.Equal(t, "alice", username)
			return &user.User{ID: userID, Email: email, Username: username}, nil
		},
	}
	tokens := &mockTokenService{
		issueFunc: func(id uuid.UUID) (*auth.TokenPair, error) {
			assert.Equal(t, userID, id)
			return testPair(), nil
		},
	}
	r := authRouter(users, tokens)

	rec := performJSON(r, http.MethodPost, "/auth/register",
		`{"email":"alice@example.com","username":"alice","password":"s3cretpass"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User   user.User      `json:"user"`
		Tokens auth.TokenPair `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, userID, body.User.ID)
	assert.Equal(t, "alice", body.User.Username)
	assert.Equal(t, "access", body.Tokens.AccessToken)
}

func TestRegisterDuplicateConflict(t *testing.T) {
	users := &mockUserService{
		registerFunc: func(_ context.Context, _, _, _ string) (*user.User, error) {
			return nil, apierrors.New(apierrors.LayerDomain, apierrors.TypeConflict,
				"USER_ALREADY_EXISTS", "an account with this email already exists", nil)
		},
	}
	r := authRouter(users, &mockTokenService{})

	rec := performJSON(r, http.MethodPost, "/auth/register",
		`{"email":"alice@example.com","username":"alice","password":"s3cretpass"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "USER_ALREADY_EXISTS", body.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	r := authRouter(&mockUserService{}, &mockTokenService{})

	rec := performJSON(r, http.MethodPost, "/auth/register", `{"email":"alice@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performJSON(r, http.MethodPost, "/auth/register",
		`{"email":"alice@example.com","password":"s3cretpass"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "username is required")
}

func TestLoginFailureCodes(t *testing.T) {
	cases := []struct {
		name string
		code string
	}{
		{name: "unknown user", code: "USER_NOT_REGISTERED"},
		{name: "bad password", code: "INVALID_CREDENTIALS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &mockUserService{
				authenticateFunc: func(_ context.Context, _, _ string) (*user.User, error) {
					return nil, apierrors.New(apierrors.LayerDomain, apierrors.TypeUnauthorized,
						tc.code, "nope", nil)
				},
			}
			r := authRouter(users, &mockTokenService{})

			rec := performJSON(r, http.MethodPost, "/auth/login",
				`{"email":"alice@example.com","password":"whatever"}`)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestValidateTokenAlways200(t *testing.T) {
	userID := uuid.New()
	tokens := &mockTokenService{
		verifyFunc: func(token string) (uuid.UUID, error) {
			if token == "good" {
				return userID, nil
			}
			return uuid.Nil, auth.ErrInvalidToken
		},
	}
	r := authRouter(&mockUserService{}, tokens)

	rec := performJSON(r, http.MethodPost, "/auth/validate-token", `{"token":"good"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Valid  bool      `json:"valid"`
		UserID uuid.UUID `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Valid)
	assert.Equal(t, userID, body.UserID)

	rec = performJSON(r, http.MethodPost, "/auth/validate-token", `{"token":"bad"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var invalid struct {
		Valid bool   `json:"valid"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invalid))
	assert.False(t, invalid.Valid)
	assert.NotEmpty(t, invalid.Error)
}

func TestRefreshToken(t *testing.T) {
	tokens := &mockTokenService{
		refreshFunc: func(refreshToken string) (*auth.TokenPair, error) {
			if refreshToken == "good-refresh" {
				return testPair(), nil
			}
			return nil, auth.ErrInvalidToken
		},
	}
	r := authRouter(&mockUserService{}, tokens)

	rec := performJSON(r, http.MethodPost, "/auth/refresh-token", `{"refresh_token":"good-refresh"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = performJSON(r, http.MethodPost, "/auth/refresh-token", `{"refresh_token":"stale"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	userID := uuid.New()
	users := &mockUserService{
		getFunc: func(_ context.Context, id uuid.UUID) (*user.User, error) {
			return &user.User{ID: id, Email: "alice@example.com"}, nil
		},
	}
	h := handlers.NewAuthHandler(users, &mockTokenService{}, zerolog.Nop())

	r := gin.New()
	r.GET("/auth/me", func(c *gin.Context) {
		middlewares.SetAuthenticatedUser(c, userID)
		h.Me(c)
	})

	rec := performJSON(r, http.MethodGet, "/auth/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, userID, body.ID)
}
