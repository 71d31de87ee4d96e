package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tip-core/pkg/errno"
)

// Response defines the standard JSON structure
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"msg"`
	Data    interface{} `json:"data"`
}

// ErrorBody 失败响应，retryable 告诉客户端能否原样重提
type ErrorBody struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	Retryable bool   `json:"retryable"`
}

// TipAccepted 结算成功响应
type TipAccepted struct {
	Success bool   `json:"success"`
	TipID   uint64 `json:"tip_id"`
}

// Success returns a success response with data
func Success(c *gin.Context, data interface{}) {
	if data == nil {
		data = gin.H{} // Return empty object instead of null
	}
	c.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Accepted 结算成功
func Accepted(c *gin.Context, tipID uint64) {
	c.JSON(http.StatusOK, TipAccepted{Success: true, TipID: tipID})
}

// Error returns an error response
// HTTP 状态码取自 Errno，未知错误一律 500
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if e, ok := errno.As(err); ok {
		status = e.Status()
	}
	code, msg := errno.Decode(err)
	c.JSON(status, ErrorBody{
		Error:     msg,
		Code:      code,
		Retryable: errno.Retryable(err),
	})
}
