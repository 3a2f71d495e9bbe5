package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/blog_server/internal/model/dto"
	"github.com/qs3c/blog_server/internal/pkg/response"
	"github.com/qs3c/blog_server/internal/pkg/schema"
	"github.com/qs3c/blog_server/internal/service"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// List 文章列表
// GET /post
func (h *PostHandler) List(c *gin.Context) {
	items, err := h.postService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, items)
}

// Get 文章详情，非数字的路径段按 slug 查找
// GET /post/:id
func (h *PostHandler) Get(c *gin.Context) {
	var (
		item *dto.PostItem
		err  error
	)

	key := c.Param("id")
	if id, perr := strconv.ParseInt(key, 10, 64); perr == nil {
		item, err = h.postService.Get(c.Request.Context(), id)
	} else {
		item, err = h.postService.GetBySlug(c.Request.Context(), key)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, item)
}

// Create 批量创建文章
// POST /post
func (h *PostHandler) Create(c *gin.Context) {
	reqs, verr := schema.DecodeList[dto.PostCreate](c.Request.Body)
	if verr != nil {
		response.ValidationError(c, verr.Fields)
		return
	}

	items, err := h.postService.Create(c.Request.Context(), reqs)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, items)
}

// Update 部分更新文章
// PATCH /post/:id
// PUT /post/:id
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.PostUpdate
	if verr := schema.Decode(c.Request.Body, &req); verr != nil {
		response.ValidationError(c, verr.Fields)
		return
	}

	item, err := h.postService.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, item)
}

// Delete 删除文章
// DELETE /post/:id
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
