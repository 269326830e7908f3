package service

import (
	"errors"

	pkgerrors "github.com/guoyuhou/NewLab/pkg/errors"
)

// classify 将仓储层错误转换为业务错误
// 记录不存在时返回 notFound（为 nil 时归入 pkgerrors.ErrNotFound），其余按持久层类别归类
func classify(err, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && (errors.Is(err, notFound) || pkgerrors.IsNotFound(err)) {
		return notFound
	}
	return pkgerrors.Classify(err)
}
