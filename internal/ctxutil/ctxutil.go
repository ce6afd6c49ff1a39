package ctxutil

import (
	"context"
	"time"
)

// приватные ключи, чтобы исключить коллизии
type key int

const (
	keyRequestID key = iota
	keySchoolID
	keyOpName
)

// WithRequestID / RequestID: id запроса для логов и Sentry
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(keyRequestID)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// WithSchoolID / SchoolID: школа, к которой относится запрос
func WithSchoolID(ctx context.Context, schoolID int) context.Context {
	return context.WithValue(ctx, keySchoolID, schoolID)
}

func SchoolID(ctx context.Context) (int, bool) {
	v := ctx.Value(keySchoolID)
	if v == nil {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// WithOp / Op: имя операции (для логов/трейса)
func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	v := ctx.Value(keyOpName)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

var (
	DefaultNotifyTimeout   = 10 * time.Second
	DefaultShutdownTimeout = 3 * time.Second
)

// WithTimeout: удобная обёртка над context.WithTimeout.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// Detached: контекст без отмены родителя, но со значениями (для фоновой отправки после ответа).
func Detached(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return WithTimeout(context.WithoutCancel(parent), d)
}
