package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasknest/internal/utils/apierrors"
)

// ErrorBody is the canonical error envelope. Every non-2xx response carries
// it, so clients parse one shape everywhere.
type ErrorBody struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// HandleError writes err as the canonical envelope. Typed errors map to their
// HTTP status; anything else becomes an opaque 500.
func HandleError(c *gin.Context, err error) {
	var apiErr *apierrors.Error
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apierrors.HTTPStatus(apiErr.Type), ErrorBody{
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{
		Error: "internal server error",
		Code:  "INTERNAL_ERROR",
	})
}

// Error writes a one-off error envelope without a typed error value.
func Error(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message, Code: code})
}
