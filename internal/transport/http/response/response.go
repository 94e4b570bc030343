package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Codes fill the envelope's error field so clients can branch without parsing messages.
const (
	CodeBadRequest     = "bad_request"
	CodeValidation     = "validation_failed"
	CodeAlreadyExists  = "already_exists"
	CodeNotFound       = "not_found"
	CodeRateLimited    = "rate_limited"
	CodeInternalServer = "internal_error"
	CodeUnavailable    = "service_unavailable"
)

type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func OK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: Timestamp(time.Now()),
	})
}

func Created(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, APIResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: Timestamp(time.Now()),
	})
}

func Error(c *gin.Context, httpStatus int, code, message string) {
	c.JSON(httpStatus, APIResponse{
		Success:   false,
		Message:   message,
		Error:     code,
		Timestamp: Timestamp(time.Now()),
	})
}

// Timestamp formats t as an ISO-8601 UTC instant with milliseconds.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
