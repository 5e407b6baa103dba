package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type LimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter решает, можно ли пропустить очередной запрос с ключом key.
type Limiter interface {
	Allow(ctx context.Context, key string) (LimitResult, error)
}

type clientInfo struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter - фиксированное окно в памяти процесса.
type MemoryLimiter struct {
	limit     int
	window    time.Duration
	clients   map[string]*clientInfo
	mtx       sync.Mutex
	now       func() time.Time
	nextPrune time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientInfo),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (LimitResult, error) {
	now := l.now()

	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.prune(now)

	info, exists := l.clients[key]
	switch {
	case !exists:
		info = &clientInfo{count: 0, resetAt: now.Add(l.window)}
		l.clients[key] = info
	case now.After(info.resetAt):
		// сброс счётчика
		info.count = 0
		info.resetAt = now.Add(l.window)
	}

	if info.count >= l.limit {
		return LimitResult{Allowed: false, Limit: l.limit, Remaining: 0, ResetAt: info.resetAt}, nil
	}

	info.count++
	return LimitResult{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: l.limit - info.count,
		ResetAt:   info.resetAt,
	}, nil
}

// prune раз в окно выбрасывает истёкшие записи, чтобы карта не росла бесконечно.
func (l *MemoryLimiter) prune(now time.Time) {
	if now.Before(l.nextPrune) {
		return
	}
	for key, info := range l.clients {
		if now.After(info.resetAt) {
			delete(l.clients, key)
		}
	}
	l.nextPrune = now.Add(l.window)
}

// фиксированное окно: INCR и PEXPIRE на первом запросе выполняются атомарно
var fixedWindowScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	return {current, ttl}
`)

// RedisLimiter - фиксированное окно, общее для всех экземпляров сервиса.
type RedisLimiter struct {
	client    redis.Scripter
	keyPrefix string
	limit     int
	window    time.Duration
}

func NewRedisLimiter(client redis.Scripter, keyPrefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		keyPrefix: keyPrefix,
		limit:     limit,
		window:    window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (LimitResult, error) {
	result, err := fixedWindowScript.Run(ctx, l.client, []string{l.keyPrefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return LimitResult{}, fmt.Errorf("скрипт лимитера redis: %w", err)
	}
	if len(result) != 2 {
		return LimitResult{}, fmt.Errorf("неожиданный ответ redis: %d элементов", len(result))
	}

	count, ttl := int(result[0]), time.Duration(result[1])*time.Millisecond
	if ttl < 0 {
		ttl = l.window
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return LimitResult{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}
