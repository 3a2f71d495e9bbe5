package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/blog_server/internal/pkg/response"
	"github.com/qs3c/blog_server/internal/pkg/schema"
	"github.com/qs3c/blog_server/internal/service"
)

// parseID 解析路径中的 id，非整数按资源不存在处理
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFoundError(c, "")
		return 0, false
	}
	return id, true
}

// writeError 把 service 层错误映射为响应
func writeError(c *gin.Context, err error) {
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationError(c, verr.Fields)
	case service.IsNotFound(err):
		response.NotFoundError(c, "")
	default:
		_ = c.Error(err)
		response.ServerError(c, "")
	}
}
