package respond

import (
	"github.com/gin-gonic/gin"

	"legalsim-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object for operational routes.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// FailureResponse is the envelope returned by the document functions.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	logError(c, status, code, message)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Failure sends {success:false, error} with the given status.
func Failure(c *gin.Context, status int, code, message string) {
	logError(c, status, code, message)
	c.AbortWithStatusJSON(status, FailureResponse{
		Success: false,
		Error:   message,
	})
}

func logError(c *gin.Context, status int, code, message string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if documentID := c.GetString("documentId"); documentID != "" {
		fields["document_id"] = documentID
	}
	telemetry.Error("http.error", fields)
}
