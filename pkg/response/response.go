package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "sudooom.community/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Success 成功响应，extra 中的字段与 success/message 平铺在同一层
func Success(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// OK 200 成功响应
func OK(c *gin.Context, message string) {
	Success(c, http.StatusOK, message, nil)
}

// Created 201 成功响应
func Created(c *gin.Context, message string, extra gin.H) {
	Success(c, http.StatusCreated, message, extra)
}

// List 列表响应，直接返回 JSON 数组
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}

// Fail 从 AppError 生成错误响应
func Fail(c *gin.Context, err error) {
	Error(c, appErrors.StatusOf(err), appErrors.MessageOf(err))
}

// Unauthorized 未认证
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, appErrors.ErrUnauthorized.Message)
}
