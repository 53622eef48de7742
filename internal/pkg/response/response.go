package response

import (
	"net/http"

	cErr "wanderlust/internal/pkg/error"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success     bool              `json:"success"`
	RequestID   string            `json:"requestID"`
	Code        int               `json:"code"`
	Data        any               `json:"data,omitempty"`
	Error       string            `json:"error,omitempty"`
	Message     string            `json:"message"`
	Description string            `json:"description"`
	Details     []cErr.FieldError `json:"details,omitempty"`
}

func Create(c *gin.Context, data any) {
	c.Status(http.StatusCreated)
	set(c, data, "Create Success")
}

func Success(c *gin.Context, data any) {
	set(c, data, "Request Success")
}

func set(c *gin.Context, data any, message string) {
	if msg, ok := data.(gin.H); ok {
		if s, ok := msg["message"].(string); ok && s != "" {
			message = s
			delete(msg, "message")
		}
	}
	c.Set("data", data)
	c.Set("message", message)
	c.Abort()
}

func AbortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

func Fail(c *gin.Context, requestID string, httpCode int, errorCode int, msg string, desc string, details ...cErr.FieldError) {
	c.JSON(httpCode, Response{
		Success:     false,
		RequestID:   requestID,
		Code:        errorCode,
		Error:       msg,
		Message:     msg,
		Description: desc,
		Details:     details,
	})
	c.Abort()
}

func FailByErr(c *gin.Context, requestID string, err error) {
	v, ok := err.(*cErr.Error)
	if ok {
		Fail(c, requestID, v.HttpCode(), v.ErrorCode(), v.Error(), v.ErrorDesc(), v.Details()...)
	} else {
		Fail(c, requestID, http.StatusInternalServerError, cErr.INTERNAL_ERROR, "internal-server-error", "internal error")
	}
}
