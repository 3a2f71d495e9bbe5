package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/blog_server/internal/model/dto"
	"github.com/qs3c/blog_server/internal/pkg/response"
	"github.com/qs3c/blog_server/internal/pkg/schema"
	"github.com/qs3c/blog_server/internal/service"
)

type RatingHandler struct {
	ratingService *service.RatingService
}

func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// List 评分列表，最多 20 条
// GET /user_rating
func (h *RatingHandler) List(c *gin.Context) {
	items, err := h.ratingService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, items)
}

// Get 评分详情
// GET /user_rating/:id
func (h *RatingHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.ratingService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, item)
}

// Create 批量创建评分
// POST /user_rating
func (h *RatingHandler) Create(c *gin.Context) {
	reqs, verr := schema.DecodeList[dto.UserRatingCreate](c.Request.Body)
	if verr != nil {
		response.ValidationError(c, verr.Fields)
		return
	}

	items, err := h.ratingService.Create(c.Request.Context(), reqs)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, items)
}

// Update 部分更新评分
// PATCH /user_rating/:id
// PUT /user_rating/:id
func (h *RatingHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UserRatingUpdate
	if verr := schema.Decode(c.Request.Body, &req); verr != nil {
		response.ValidationError(c, verr.Fields)
		return
	}

	item, err := h.ratingService.Update(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, item)
}

// Delete 删除评分
// DELETE /user_rating/:id
func (h *RatingHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.ratingService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
