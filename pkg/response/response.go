// Package response writes the JSON envelope every HTTP handler returns.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	MessageSuccess          = "Success"
	DefaultErrorMessage     = "Something went wrong"
	InternalServerErrorCode = 500

	// DateTimeFormat is the human-readable timestamp layout used in CLI output.
	DateTimeFormat = "2006-01-02 15:04:05"
)

// Resp is the standard JSON response body.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

func send(c *gin.Context, status, code int, msg string, data any) {
	c.JSON(status, Resp{ErrorCode: code, Message: msg, Data: data})
}

// NewOKResp wraps data in a success envelope.
func NewOKResp(data any) Resp {
	return Resp{Message: MessageSuccess, Data: data}
}

// OK sends 200 with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// Error sends 400 with the error message. A nil data map becomes empty.
func Error(c *gin.Context, err error, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	send(c, http.StatusBadRequest, 1, err.Error(), data)
}

// InternalError sends 500 without leaking err to the caller.
func InternalError(c *gin.Context, _ error) {
	send(c, http.StatusInternalServerError, InternalServerErrorCode, DefaultErrorMessage, nil)
}

func Unauthorized(c *gin.Context) {
	send(c, http.StatusUnauthorized, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized), nil)
}

func Forbidden(c *gin.Context) {
	send(c, http.StatusForbidden, http.StatusForbidden, http.StatusText(http.StatusForbidden), nil)
}

// NotFound sends 404 with the error message.
func NotFound(c *gin.Context, err error) {
	send(c, http.StatusNotFound, http.StatusNotFound, err.Error(), nil)
}

func TooManyRequests(c *gin.Context) {
	send(c, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests), nil)
}

// ServiceUnavailable sends 503 with data describing what is down.
func ServiceUnavailable(c *gin.Context, data any) {
	send(c, http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable), data)
}
