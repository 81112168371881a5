// Package response defines the JSON envelope every API endpoint uses.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the standard API envelope. Code 0 means success; error
// responses carry the HTTP status as the code.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Success sends a successful response.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error sends an error response with the given HTTP status.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest sends a 400 response; message names the offending field.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError sends a 500 response.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Aborted ends a request whose client went away without writing a body.
// Writing to a disconnected client is pointless; the status is recorded for
// the request log only.
func Aborted(c *gin.Context) {
	c.Status(499) // client closed request
	c.Abort()
}
