package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the standardized error response.
// It is written as {"error": Message, "code": Code} so browser-side callers can show
// the error text as-is.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"error"`
	Details    string `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError instance
func NewAPIError(statusCode int, code string, message string, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

// RespondWithError sends a standardized JSON error response
func RespondWithError(c *gin.Context, err *APIError) {
	if err.Details != "" {
		LogDebug("API error details", map[string]interface{}{"code": err.Code, "details": err.Details})
	}
	c.JSON(err.StatusCode, err)
	c.Abort()
}

// Common Error Constants
const (
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeConflict             = "CONFLICT"
	ErrCodeInternalServerError  = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
)

// RespondValidationFailed returns a standard validation error carrying message as the error text.
func RespondValidationFailed(c *gin.Context, message, details string) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeValidationFailed, message, details))
}
