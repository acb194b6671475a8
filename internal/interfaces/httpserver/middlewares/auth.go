package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tasknest/internal/infrastructure/auth"
	"tasknest/internal/interfaces/httpserver/responses"
)

const contextUserIDKey = "auth.user_id"

// UserLookup confirms that an authenticated subject still exists.
type UserLookup interface {
	Exists(ctx context.Context, id uuid.UUID) bool
}

// publicPrefixes lists path prefixes reachable without a token.
var publicPrefixes = []string{
	"/health",
	"/swagger/",
}

// publicPaths lists exact paths reachable without a token.
var publicPaths = map[string]bool{
	"/":                    true,
	"/metrics":             true,
	"/auth/register":       true,
	"/auth/login":          true,
	"/auth/validate-token": true,
	"/auth/refresh-token":  true,
	"/auth/logout":         true,
}

// Auth validates the bearer token on protected routes and stores the subject
// user id in the context. Preflight requests pass through untouched.
func Auth(tokens *auth.TokenManager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || isPublic(c.Request.URL.Path) {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			responses.Error(c, http.StatusUnauthorized,
				"MISSING_AUTH_HEADER", "authorization header is required")
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			responses.Error(c, http.StatusUnauthorized,
				"INVALID_AUTH_SCHEME", "authorization header must use the Bearer scheme")
			return
		}

		userID, err := tokens.VerifyAccess(strings.TrimSpace(token))
		if err != nil {
			responses.HandleError(c, err)
			return
		}

		if !users.Exists(c.Request.Context(), userID) {
			responses.Error(c, http.StatusUnauthorized,
				"USER_NOT_REGISTERED", "no account exists for this token")
			return
		}

		SetAuthenticatedUser(c, userID)
		c.Next()
	}
}

// SetAuthenticatedUser stores id as the request's authenticated subject.
func SetAuthenticatedUser(c *gin.Context, id uuid.UUID) {
	c.Set(contextUserIDKey, id)
}

// AuthenticatedUser returns the user id stored by Auth.
func AuthenticatedUser(c *gin.Context) (uuid.UUID, bool) {
	val, ok := c.Get(contextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

func isPublic(path string) bool {
	if publicPaths[path] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
