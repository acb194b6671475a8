package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Type represents the category of error.
type Type string

const (
	TypeValidation   Type = "VALIDATION"
	TypeUnauthorized Type = "UNAUTHORIZED"
	TypeForbidden    Type = "FORBIDDEN"
	TypeNotFound     Type = "NOT_FOUND"
	TypeConflict     Type = "CONFLICT"
	TypeRateLimited  Type = "RATE_LIMITED"
	TypeExternal     Type = "EXTERNAL"
	TypeDatabase     Type = "DATABASE_ERROR"
	TypeInternal     Type = "INTERNAL"
)

// Layer represents the application layer where the error occurred.
type Layer string

const (
	LayerRepository     Layer = "repository"
	LayerDomain         Layer = "domain"
	LayerHandler        Layer = "handler"
	LayerMiddleware     Layer = "middleware"
	LayerInfrastructure Layer = "infrastructure"
)

// Error carries the category, a machine readable code, and the layer of origin.
// Handlers convert it into the canonical JSON envelope at the response boundary.
type Error struct {
	Type      Type
	Code      string
	Message   string
	Err       error
	Details   map[string]any
	Layer     Layer
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s][%s] %s: %v", e.Layer, e.Type, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s][%s] %s", e.Layer, e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error with a machine readable code.
func New(layer Layer, errType Type, code, message string, err error) *Error {
	return &Error{
		Type:      errType,
		Code:      code,
		Message:   message,
		Err:       err,
		Layer:     layer,
		Timestamp: time.Now().UTC(),
	}
}

// WithDetails attaches structured context surfaced in the error envelope.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// HTTPStatus maps error types to HTTP status codes.
func HTTPStatus(errType Type) int {
	switch errType {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypeForbidden:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeRateLimited:
		return http.StatusTooManyRequests
	case TypeExternal:
		return http.StatusBadGateway
	case TypeDatabase, TypeInternal:
		fallthrough
	default:
		return http.StatusInternalServerError
	}
}

// IsType checks whether err is an *Error of the given type.
func IsType(err error, errType Type) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Type == errType
}
