package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tasknest/internal/domain/user"
	"tasknest/internal/infrastructure/auth"
	"tasknest/internal/infrastructure/metrics"
	"tasknest/internal/interfaces/httpserver/middlewares"
	"tasknest/internal/interfaces/httpserver/requests"
	"tasknest/internal/interfaces/httpserver/responses"
)

// UserService is the slice of the user domain the auth handler needs.
type UserService interface {
	Register(ctx context.Context, email, username, password string) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// TokenService issues and checks token pairs.
type TokenService interface {
	IssuePair(userID uuid.UUID) (*auth.TokenPair, error)
	VerifyAccess(token string) (uuid.UUID, error)
	Refresh(refreshToken string) (*auth.TokenPair, error)
}

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	users  UserService
	tokens TokenService
	log    zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users UserService, tokens TokenService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		log:    log.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /auth/register
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body requests.RegisterRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 409 {object} responses.ErrorBody
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req requests.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "email, username and password are required")
		return
	}

	u, err := h.users.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "failure").Inc()
		responses.HandleError(c, err)
		return
	}

	pair, err := h.tokens.IssuePair(u.ID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	h.log.Info().Str("user_id", u.ID.String()).Msg("account registered")
	c.JSON(http.StatusOK, gin.H{"user": u, "tokens": pair})
}

// Login handles POST /auth/login
// @Summary Authenticate with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body requests.LoginRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} responses.ErrorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req requests.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "email and password are required")
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		responses.HandleError(c, err)
		return
	}

	pair, err := h.tokens.IssuePair(u.ID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	c.JSON(http.StatusOK, gin.H{"user": u, "tokens": pair})
}

// ValidateToken handles POST /auth/validate-token. It always answers 200;
// the verdict is in the body so clients can check tokens without tripping
// error handling.
// @Summary Check whether a token is valid
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body requests.ValidateTokenRequest true "Token"
// @Success 200 {object} map[string]any
// @Router /auth/validate-token [post]
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	var req requests.ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "token is required")
		return
	}

	userID, err := h.tokens.VerifyAccess(req.Token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "token is invalid or expired"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "user_id": userID})
}

// RefreshToken handles POST /auth/refresh-token
// @Summary Exchange a refresh token for a new pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body requests.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} auth.TokenPair
// @Failure 401 {object} responses.ErrorBody
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req requests.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "refresh_token is required")
		return
	}

	pair, err := h.tokens.Refresh(req.RefreshToken)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Logout handles POST /auth/logout. Tokens are stateless, so logout is a
// client-side discard; the endpoint exists so clients have a uniform flow.
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /auth/me
// @Summary Get the authenticated account
// @Tags Auth
// @Produce json
// @Success 200 {object} user.User
// @Failure 401 {object} responses.ErrorBody
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middlewares.AuthenticatedUser(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "authentication required")
		return
	}

	u, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
