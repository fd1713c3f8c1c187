package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("record was modified by another operation, please reload and retry")

// PostgreSQL SQLSTATE
const (
	pgUniqueViolation = "23505"
)

// IsUniqueViolation 判断错误是否为指定约束（为空则任意约束）的唯一键冲突
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
