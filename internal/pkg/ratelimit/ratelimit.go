// Package ratelimit provides fixed-window request limiters.
package ratelimit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/rueidis"
	"github.com/yigit/internhub/internal/pkg/logger"
)

// Limiter decides whether one more request under key fits the window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// MemoryLimiter keeps counters in process memory.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*bucket), now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.windowEnd) {
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(window)}
		l.sweep(now)
		return true
	}
	if b.count >= limit {
		return false
	}
	b.count++
	return true
}

// sweep drops expired buckets once the map grows; called with mu held
func (l *MemoryLimiter) sweep(now time.Time) {
	if len(l.buckets) < 1024 {
		return
	}
	for k, b := range l.buckets {
		if now.After(b.windowEnd) {
			delete(l.buckets, k)
		}
	}
}

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter shares counters between instances through Redis. It fails
// open when Redis is unreachable.
type RedisLimiter struct {
	client rueidis.Client
	script *rueidis.Lua
	prefix string
}

func NewRedisLimiter(client rueidis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		script: rueidis.NewLuaScript(rateLimitScript),
		prefix: prefix,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil || key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	allowed, err := l.script.Exec(ctx, l.client,
		[]string{l.prefix + key},
		[]string{strconv.FormatInt(ttl, 10), strconv.Itoa(limit)},
	).AsInt64()
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable, allowing request")
		return true
	}
	return allowed == 1
}
