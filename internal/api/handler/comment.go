package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/blog_server/internal/model/dto"
	"github.com/qs3c/blog_server/internal/pkg/response"
	"github.com/qs3c/blog_server/internal/pkg/schema"
	"github.com/qs3c/blog_server/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// List 评论列表
// GET /comment
func (h *CommentHandler) List(c *gin.Context) {
	items, err := h.commentService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, items)
}

// Get 评论详情
// GET /comment/:id
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.commentService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, item)
}

// Create 批量创建评论，父评论必须已存在且属于同一文章
// POST /comment
func (h *CommentHandler) Create(c *gin.Context) {
	reqs, verr := schema.DecodeList[dto.CommentCreate](c.Request.Body)
	if verr != nil {
		response.ValidationError(c, verr.Fields)
		return
	}

	items, err := h.commentService.Create(c.Request.Context(), reqs)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, items)
}

// Update 部分更新评论
// PATCH /comment/:id
// PUT /comment/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.CommentUpdate
	if verr := schema.Decode(c.Request.Body, &req); verr != nil {
		response.ValidationError(c, verr.Fields)
		return
	}

	item, err := h.commentService.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, item)
}

// Delete 删除评论，回复保留
// DELETE /comment/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
