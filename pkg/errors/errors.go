package errors

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStaleState 条件更新未命中：记录状态已被其他操作修改
var ErrStaleState = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrStoreUnavailable 存储暂不可用（连接中断、序列化失败、死锁、超时），调用方可重试
var ErrStoreUnavailable = errors.New("存储服务暂不可用，请稍后重试")

// PostgreSQL SQLSTATE
const (
	pgForeignKeyViolation   = "23503"
	pgUniqueViolation       = "23505"
	pgSerializationFailure  = "40001"
	pgDeadlockDetected      = "40P01"
	pgAdminShutdown         = "57P01"
	pgConnectionClassPrefix = "08"
)

// IsTransient 判断是否为可重试的存储故障
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgAdminShutdown:
			return true
		}
		return strings.HasPrefix(pgErr.Code, pgConnectionClassPrefix)
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

// IsForeignKeyViolation 外键约束冲突（RESTRICT 删除被拒）
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, pgForeignKeyViolation)
}

// IsUniqueViolation 唯一约束冲突
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgUniqueViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
