package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is returned for request-level rejections.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is returned for lookup failures and internal errors.
type MessageBody struct {
	Message string `json:"message"`
}

const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgUnauthorized     = "Unauthorized"
	MsgInternalError    = "Internal Error"
)

// Success sends a 200 response with the payload as the body.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error sends `{"error": message}`.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{Error: message})
}

// Message sends `{"message": message}`.
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, MessageBody{Message: message})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, MsgUnauthorized)
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	Error(c, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message string) {
	Message(c, http.StatusNotFound, message)
}

// InternalError sends the generic 500 response. Callers log the cause.
func InternalError(c *gin.Context) {
	Message(c, http.StatusInternalServerError, MsgInternalError)
}
