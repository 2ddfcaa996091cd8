package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Status    int               `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	RequestID string            `json:"request_id"`
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Data      T                 `json:"data,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Metadata  interface{}       `json:"metadata,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Metadata:  meta,
	}
}

func Error[T any](ctx *gin.Context, status int, message string, details map[string]string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Details:   details,
		Metadata:  meta,
	}
}

// Write sends resp with its own status code.
func Write[T any](ctx *gin.Context, resp APIResponse[T]) {
	ctx.JSON(resp.Status, resp)
}

// OK builds and writes a success envelope.
func OK[T any](ctx *gin.Context, status int, data T, message string) {
	Write(ctx, Success(ctx, status, data, message, nil))
}
