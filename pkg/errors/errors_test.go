package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"记录不存在", gorm.ErrRecordNotFound, ErrNotFound},
		{"包装后的记录不存在", fmt.Errorf("查询: %w", gorm.ErrRecordNotFound), ErrNotFound},
		{"唯一约束", gorm.ErrDuplicatedKey, ErrConstraint},
		{"外键约束", gorm.ErrForeignKeyViolated, ErrConstraint},
		{"包装后的唯一约束", fmt.Errorf("创建用户: %w", gorm.ErrDuplicatedKey), ErrConstraint},
		{"sqlite 唯一约束", errors.New("UNIQUE constraint failed: users.username"), ErrConstraint},
		{"sqlite 非空约束", errors.New("NOT NULL constraint failed: users.email"), ErrConstraint},
		{"postgres 唯一约束", &pgconn.PgError{Code: "23505"}, ErrConstraint},
		{"postgres 连接错误", &pgconn.PgError{Code: "08006"}, ErrUnavailable},
		{"其他错误", errors.New("database is locked"), ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			if !errors.Is(got, tt.want) {
				t.Errorf("Classify(%v) = %v，期望归类为 %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("nil 输入应返回 nil")
	}
}

func TestClassify_Idempotent(t *testing.T) {
	once := Classify(gorm.ErrRecordNotFound)
	twice := Classify(once)
	if once != twice {
		t.Errorf("已归类的错误不应再次包装: %v", twice)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(gorm.ErrRecordNotFound) {
		t.Error("gorm.ErrRecordNotFound 应识别为不存在")
	}
	if IsNotFound(errors.New("x")) {
		t.Error("普通错误不应识别为不存在")
	}
}
