package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/blog_server/internal/model/dto"
	"github.com/qs3c/blog_server/internal/pkg/response"
	"github.com/qs3c/blog_server/internal/pkg/schema"
	"github.com/qs3c/blog_server/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List 用户列表
// GET /user
func (h *UserHandler) List(c *gin.Context) {
	items, err := h.userService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, items)
}

// Get 用户详情
// GET /user/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, item)
}

// Create 批量创建用户
// POST /user
func (h *UserHandler) Create(c *gin.Context) {
	reqs, verr := schema.DecodeList[dto.UserCreate](c.Request.Body)
	if verr != nil {
		response.ValidationError(c, verr.Fields)
		return
	}

	items, err := h.userService.Create(c.Request.Context(), reqs)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, items)
}

// Update 部分更新用户
// PATCH /user/:id
// PUT /user/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UserUpdate
	if verr := schema.Decode(c.Request.Body, &req); verr != nil {
		response.ValidationError(c, verr.Fields)
		return
	}

	item, err := h.userService.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, item)
}

// Delete 删除用户
// DELETE /user/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
