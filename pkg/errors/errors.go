package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// 持久层错误分类
// 仓储层原始错误统一归入以下三类，服务层再转换为各模块自己的哨兵错误
var (
	ErrNotFound    = errors.New("记录不存在")
	ErrConstraint  = errors.New("违反数据约束")
	ErrUnavailable = errors.New("数据库不可用")
)

// Classify 将 gorm / sqlite / postgres 错误归类为上述哨兵之一
// 返回值通过 %w 保留原始错误，nil 输入返回 nil
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConstraint) || errors.Is(err, ErrUnavailable) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}

	// postgres：按 SQLSTATE 类别判断
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "23") {
			return fmt.Errorf("%w: %v", ErrConstraint, err)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// 兜底：未开启 TranslateError 或方言未覆盖的约束（NOT NULL、CHECK）按消息文本识别
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "foreign key constraint"),
		strings.Contains(msg, "not null constraint"),
		strings.Contains(msg, "check constraint"):
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// IsNotFound 判断错误是否为记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
