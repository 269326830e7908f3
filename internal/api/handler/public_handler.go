package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/service"
)

// PublicHandler 无需认证的只读接口
// 成功时直接返回数据本身，不包统一响应格式，错误仍走统一格式
type PublicHandler struct {
	svc *service.Service
}

// NewPublicHandler 创建 PublicHandler
func NewPublicHandler(svc *service.Service) *PublicHandler {
	return &PublicHandler{svc: svc}
}

// Root GET /
func (h *PublicHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Laboratory Management System API"})
}

// Inventory GET /inventory
func (h *PublicHandler) Inventory(c *gin.Context) {
	list, err := h.svc.Inventory.ListItems(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// FinancialSummary GET /financial-summary
func (h *PublicHandler) FinancialSummary(c *gin.Context) {
	summary, err := h.svc.Finance.Summary(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Projects GET /projects
func (h *PublicHandler) Projects(c *gin.Context) {
	list, err := h.svc.Project.PublicProjects(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UserActivity GET /user-activity
func (h *PublicHandler) UserActivity(c *gin.Context) {
	list, err := h.svc.User.UserActivity(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
