package response

import (
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/domain"
)

// TimestampLayout is ISO-8601 UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Response standardizes the API JSON response
type Response struct {
	Success   bool                     `json:"success"`
	Message   string                   `json:"message"`
	Data      any                      `json:"data,omitempty"`
	Errors    []domain.ValidationError `json:"errors,omitempty"`
	Timestamp string                   `json:"timestamp,omitempty" example:"2026-10-17T09:30:00.000Z"`
	Error     string                   `json:"error,omitempty"`
	RequestID string                   `json:"request_id,omitempty"`
}

func requestID(c *gin.Context) string {
	return c.GetString(string(domain.KeyRequestID))
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, at time.Time) {
	resp := Response{
		Success:   true,
		Message:   message,
		RequestID: requestID(c),
	}
	if !at.IsZero() {
		resp.Timestamp = at.UTC().Format(TimestampLayout)
	}
	c.JSON(code, resp)
}

// WithData sends an envelope carrying a data payload
func WithData(c *gin.Context, code int, success bool, message string, data any) {
	c.JSON(code, Response{
		Success:   success,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// ValidationFailed sends a 4xx carrying the field errors
func ValidationFailed(c *gin.Context, code int, message string, errs []domain.ValidationError) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Errors:    errs,
		RequestID: requestID(c),
	})
}

// Error sends an error response. detail is omitted when empty.
func Error(c *gin.Context, code int, message string, detail string) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     detail,
		RequestID: requestID(c),
	})
}
