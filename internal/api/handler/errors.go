package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guoyuhou/NewLab/internal/api/middleware"
	pkgerrors "github.com/guoyuhou/NewLab/pkg/errors"
	"github.com/guoyuhou/NewLab/pkg/mlkit"
	"github.com/guoyuhou/NewLab/pkg/response"
)

// handleCommonError 各模块未单独处理的错误按持久层类别统一响应
func handleCommonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mlkit.ErrInsufficientData):
		response.Unprocessable(c, response.CodeInsufficientData, "数据量不足，无法完成分析")
	case errors.Is(err, mlkit.ErrMalformedData):
		response.BadRequest(c, response.CodeBadRequest, "数据格式错误，应为 JSON 记录数组或按列组织的对象")
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, response.CodeBadRequest, "记录不存在")
	case errors.Is(err, pkgerrors.ErrConstraint):
		response.Conflict(c, response.CodeBadRequest, "数据与已有记录冲突")
	case errors.Is(err, pkgerrors.ErrUnavailable):
		response.ServiceUnavailable(c)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// bindFailed 请求体解析失败时的统一响应
func bindFailed(c *gin.Context, err error) {
	if isBodyErr(c, err) {
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeBadRequest, "参数校验失败", err.Error())
}

// isBodyErr 读取请求体失败且原因是大小超限时写入 413 并返回 true
func isBodyErr(c *gin.Context, err error) bool {
	if !middleware.IsBodyTooLarge(err) {
		return false
	}
	response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
	return true
}
