package common

import "github.com/gin-gonic/gin"

// ErrorResponse 统一错误返回结构。
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// 面向客户端的错误文案
const (
	MsgInternalError    = "Internal server error"
	MsgWorkflowNotFound = "Workflow not found"
	MsgUserNotFound     = "User not found"
)

// Fail 写出错误响应
func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponse{Success: false, Error: msg})
}

// AbortFail 写出错误响应并终止后续处理
func AbortFail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: msg})
}
