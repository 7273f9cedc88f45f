package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/duty-tracker/internal/models"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONFLICT"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// EntityDetails is the details payload for errors about one entity.
type EntityDetails struct {
	Entity string `json:"entity"`
	Key    string `json:"key"`
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// RespondDomainError maps a domain error to its HTTP status by kind.
// Anything outside the taxonomy is a 500 with a generic message.
func RespondDomainError(c *gin.Context, err error) {
	status, code := StatusOf(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		InternalError(c, "")
		return
	}

	var entityErr *models.EntityError
	if stderrors.As(err, &entityErr) {
		RespondWithError(c, status, NewAPIErrorWithDetails(code, entityErr.Err.Error(), EntityDetails{
			Entity: entityErr.Entity,
			Key:    entityErr.Key,
		}))
		return
	}
	RespondWithError(c, status, NewAPIError(code, err.Error()))
}

// StatusOf returns the HTTP status and error code for err.
func StatusOf(err error) (int, string) {
	if stderrors.Is(err, models.ErrInvalidCredential) {
		return http.StatusUnauthorized, ErrCodeInvalidCredentials
	}
	switch kind := models.KindOf(err); {
	case stderrors.Is(kind, models.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case stderrors.Is(kind, models.ErrDuplicateKey):
		return http.StatusConflict, ErrCodeAlreadyExists
	case stderrors.Is(kind, models.ErrAlreadyInState):
		return http.StatusConflict, ErrCodeConflict
	case stderrors.Is(kind, models.ErrUnauthorized):
		return http.StatusForbidden, ErrCodeForbidden
	case stderrors.Is(kind, models.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeInvalidInput
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, message, details))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, message))
}
