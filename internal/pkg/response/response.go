package response

import "github.com/gin-gonic/gin"

// Envelope is the wire shape every SpotSense endpoint responds with: data on
// success, a coded error otherwise. The frontend switches on error codes, so
// codes are stable identifiers while messages are free to change.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Envelope{Success: true, Data: data})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, Envelope{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// ErrorWithDetails carries a payload alongside the error, e.g. the rejected
// extension on a time conflict or field-level validation failures.
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details interface{}) {
	c.JSON(statusCode, Envelope{
		Success: false,
		Error:   &APIError{Code: code, Message: message, Details: details},
	})
}
