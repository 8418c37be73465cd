package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrLockUnsupported возвращается, если пул не умеет выдавать выделенное соединение.
var ErrLockUnsupported = errors.New("advisory lock requires a dedicated connection")

type connAcquirer interface {
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
}

// WithAdvisoryLock выполняет fn, удерживая pg_try_advisory_lock(key).
// Захват и освобождение идут через одно соединение: сессионная блокировка
// принадлежит соединению, а не пулу.
// Если блокировку держит другой экземпляр, fn не вызывается и возвращается false.
func (s *Storage) WithAdvisoryLock(ctx context.Context, key int64, fn func(context.Context) error) (bool, error) {
	acq, ok := s.pool.(connAcquirer)
	if !ok {
		return false, ErrLockUnsupported
	}
	conn, err := acq.Acquire(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire connection for advisory lock", "error", err)
		return false, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	defer conn.Release()

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&locked); err != nil {
		slog.ErrorContext(ctx, "failed to try advisory lock", "error", err, "key", key)
		return false, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	if !locked {
		return false, nil
	}
	defer func() {
		if _, err := conn.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", key); err != nil {
			slog.ErrorContext(ctx, "failed to release advisory lock", "error", err, "key", key)
		}
	}()

	return true, fn(ctx)
}
