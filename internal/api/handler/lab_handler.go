package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// LabHandler 实验室主页信息 HTTP 处理器
type LabHandler struct {
	svc service.LabService
}

// NewLabHandler 创建 LabHandler
func NewLabHandler(svc service.LabService) *LabHandler {
	return &LabHandler{svc: svc}
}

// GetInfo 实验室基本信息
// GET /api/v1/lab
func (h *LabHandler) GetInfo(c *gin.Context) {
	info, err := h.svc.GetInfo(c.Request.Context())
	if err != nil {
		h.handleLabError(c, err)
		return
	}
	response.OK(c, info)
}

// UpdateInfo 更新实验室信息
// PUT /api/v1/lab
func (h *LabHandler) UpdateInfo(c *gin.Context) {
	var req dto.LabInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	info, err := h.svc.UpdateInfo(c.Request.Context(), &req)
	if err != nil {
		h.handleLabError(c, err)
		return
	}
	response.OK(c, info)
}

// ListMembers GET /api/v1/lab/members
func (h *LabHandler) ListMembers(c *gin.Context) {
	list, err := h.svc.ListMembers(c.Request.Context())
	if err != nil {
		h.handleLabError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// AddMember POST /api/v1/lab/members
func (h *LabHandler) AddMember(c *gin.Context) {
	var req dto.LabMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	m, err := h.svc.AddMember(c.Request.Context(), &req)
	if err != nil {
		h.handleLabError(c, err)
		return
	}
	response.Created(c, m)
}

// ListEquipment GET /api/v1/lab/equipment
func (h *LabHandler) ListEquipment(c *gin.Context) {
	list, err := h.svc.ListEquipment(c.Request.Context())
	if err != nil {
		h.handleLabError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// AddEquipment POST /api/v1/lab/equipment
func (h *LabHandler) AddEquipment(c *gin.Context) {
	var req dto.LabEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	eq, err := h.svc.AddEquipment(c.Request.Context(), &req)
	if err != nil {
		h.handleLabError(c, err)
		return
	}
	response.Created(c, eq)
}

// RecentPapers 最近发表的论文
// GET /api/v1/lab/papers
func (h *LabHandler) RecentPapers(c *gin.Context) {
	list, err := h.svc.RecentPapers(c.Request.Context())
	if err != nil {
		h.handleLabError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// AddPaper POST /api/v1/lab/papers
func (h *LabHandler) AddPaper(c *gin.Context) {
	var req dto.PaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	p, err := h.svc.AddPaper(c.Request.Context(), &req)
	if err != nil {
		h.handleLabError(c, err)
		return
	}
	response.Created(c, p)
}

func (h *LabHandler) handleLabError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrLabInfoNotFound) {
		response.NotFound(c, 81001, "尚未设置实验室信息")
		return
	}
	handleCommonError(c, err)
}
