package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform error envelope returned by every handler
type ErrorResponse struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	StatusCode int      `json:"statusCode"`
	Errors     []string `json:"errors"`
	Timestamp  string   `json:"timestamp"`
	Path       string   `json:"path"`
}

// JSONError writes the uniform error envelope
func JSONError(c *gin.Context, status int, message string, errs ...string) {
	if len(errs) == 0 {
		errs = []string{message}
	}
	c.JSON(status, ErrorResponse{
		Success:    false,
		Message:    message,
		StatusCode: status,
		Errors:     errs,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       c.Request.URL.Path,
	})
}

// AbortError writes the error envelope and stops the handler chain
func AbortError(c *gin.Context, status int, message string, errs ...string) {
	JSONError(c, status, message, errs...)
	c.Abort()
}

// InternalError hides storage failure detail from the caller; the handler is
// expected to have logged the underlying error.
func InternalError(c *gin.Context) {
	JSONError(c, http.StatusInternalServerError, "Internal server error")
}
