package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// LiteratureHandler 文献模块 HTTP 处理器
type LiteratureHandler struct {
	svc service.LiteratureService
}

// NewLiteratureHandler 创建 LiteratureHandler
func NewLiteratureHandler(svc service.LiteratureService) *LiteratureHandler {
	return &LiteratureHandler{svc: svc}
}

// Add 新增文献
// POST /api/v1/literature
func (h *LiteratureHandler) Add(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.LiteratureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	lit, err := h.svc.Add(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleLiteratureError(c, err)
		return
	}
	response.Created(c, lit)
}

// Search 按标题、作者、笔记检索
// GET /api/v1/literature/search?q=xxx
func (h *LiteratureHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.svc.Search(c.Request.Context(), q.Q)
	if err != nil {
		h.handleLiteratureError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Mine 当前用户录入的文献
// GET /api/v1/literature
func (h *LiteratureHandler) Mine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.handleLiteratureError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Get 文献详情
// GET /api/v1/literature/:id
func (h *LiteratureHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	lit, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleLiteratureError(c, err)
		return
	}
	response.OK(c, lit)
}

// Update 更新本人录入的文献
// PUT /api/v1/literature/:id
func (h *LiteratureHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.LiteratureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	lit, err := h.svc.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		h.handleLiteratureError(c, err)
		return
	}
	response.OK(c, lit)
}

// Delete 删除本人录入的文献
// DELETE /api/v1/literature/:id
func (h *LiteratureHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleLiteratureError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *LiteratureHandler) handleLiteratureError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrLiteratureNotFound) {
		response.NotFound(c, 70001, "文献不存在")
		return
	}
	handleCommonError(c, err)
}
