package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/dto"
	"github.com/guoyuhou/NewLab/internal/service"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// StorageHandler 云盘 HTTP 处理器
type StorageHandler struct {
	svc service.StorageService
}

// NewStorageHandler 创建 StorageHandler
func NewStorageHandler(svc service.StorageService) *StorageHandler {
	return &StorageHandler{svc: svc}
}

// Upload 上传文件
// POST /api/v1/files (multipart/form-data, field="file")
func (h *StorageHandler) Upload(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if isBodyErr(c, err) {
			return
		}
		response.BadRequest(c, 91001, "请选择要上传的文件")
		return
	}
	defer file.Close()

	f, err := h.svc.Upload(c.Request.Context(), userID, header.Filename, file)
	if err != nil {
		h.handleStorageError(c, err)
		return
	}
	response.Created(c, f)
}

// List 当前用户上传的文件
// GET /api/v1/files
func (h *StorageHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.ListUserFiles(c.Request.Context(), userID)
	if err != nil {
		h.handleStorageError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Download 所有者或被共享者下载
// GET /api/v1/files/:id/download
func (h *StorageHandler) Download(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	f, err := h.svc.Open(c.Request.Context(), userID, id)
	if err != nil {
		h.handleStorageError(c, err)
		return
	}
	c.FileAttachment(f.Path, f.Name)
}

// Delete DELETE /api/v1/files/:id
func (h *StorageHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		h.handleStorageError(c, err)
		return
	}
	response.OK(c, nil)
}

// Share 按文件名共享给其他用户
// POST /api/v1/files/share
func (h *StorageHandler) Share(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ShareFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.svc.Share(c.Request.Context(), userID, req.FileName, req.Username); err != nil {
		h.handleStorageError(c, err)
		return
	}
	response.OK(c, nil)
}

// SharedWithMe GET /api/v1/files/shared
func (h *StorageHandler) SharedWithMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.ListSharedWithMe(c.Request.Context(), userID)
	if err != nil {
		h.handleStorageError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

func (h *StorageHandler) handleStorageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFileNotFound):
		response.NotFound(c, 91002, "文件不存在")
	case errors.Is(err, service.ErrInvalidFileName):
		response.BadRequest(c, 91003, "无效的文件名")
	case errors.Is(err, service.ErrShareToSelf):
		response.BadRequest(c, 91004, "不能共享给自己")
	case errors.Is(err, service.ErrShareUserAbsent):
		response.NotFound(c, 91005, "共享对象用户不存在")
	default:
		handleCommonError(c, err)
	}
}
