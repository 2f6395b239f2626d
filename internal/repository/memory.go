package repository

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryRateLimiter держит лимитер на пользователя в памяти процесса.
// Используется как запасной вариант, когда Redis недоступен.
type MemoryRateLimiter struct {
	limiters sync.Map
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{}
}

func (r *MemoryRateLimiter) Allow(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	val, ok := r.limiters.Load(userID)
	if !ok {
		limiter := rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
		val, _ = r.limiters.LoadOrStore(userID, limiter)
	}

	return val.(*rate.Limiter).Allow(), nil
}
