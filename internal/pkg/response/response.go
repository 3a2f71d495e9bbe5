package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误消息
const (
	MsgNotFound    = "Resource not found"
	MsgServerError = "Internal server error"
	MsgUnavailable = "Service unavailable"
)

// ErrorBody 错误响应结构
type ErrorBody struct {
	Error string `json:"error"`
}

// Success 200 响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 204 空响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Error: message})
}

// NotFoundError 资源不存在
func NotFoundError(c *gin.Context, message string) {
	if message == "" {
		message = MsgNotFound
	}
	Error(c, http.StatusNotFound, message)
}

// ValidationError 参数校验失败，fields 为按字段组织的错误
func ValidationError(c *gin.Context, fields map[string]interface{}) {
	c.JSON(http.StatusBadRequest, fields)
}

// ServerError 服务器错误
func ServerError(c *gin.Context, message string) {
	if message == "" {
		message = MsgServerError
	}
	Error(c, http.StatusInternalServerError, message)
}

// UnavailableError 依赖不可用
func UnavailableError(c *gin.Context, message string) {
	if message == "" {
		message = MsgUnavailable
	}
	Error(c, http.StatusServiceUnavailable, message)
}
