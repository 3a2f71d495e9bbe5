package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/blog_server/internal/model/dto"
	"github.com/qs3c/blog_server/internal/pkg/response"
	"github.com/qs3c/blog_server/internal/pkg/schema"
	"github.com/qs3c/blog_server/internal/service"
)

type RoleHandler struct {
	roleService *service.RoleService
}

func NewRoleHandler(roleService *service.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

// List 角色列表
// GET /role
func (h *RoleHandler) List(c *gin.Context) {
	items, err := h.roleService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, items)
}

// Get 角色详情
// GET /role/:id
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.roleService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, item)
}

// Create 批量创建角色
// POST /role
func (h *RoleHandler) Create(c *gin.Context) {
	reqs, verr := schema.DecodeList[dto.RoleCreate](c.Request.Body)
	if verr != nil {
		response.ValidationError(c, verr.Fields)
		return
	}

	items, err := h.roleService.Create(c.Request.Context(), reqs)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, items)
}

// Update 更新角色
// PATCH /role/:id
// PUT /role/:id
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.RoleUpdate
	if verr := schema.Decode(c.Request.Body, &req); verr != nil {
		response.ValidationError(c, verr.Fields)
		return
	}

	item, err := h.roleService.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, item)
}

// Delete 删除角色
// DELETE /role/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.roleService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
