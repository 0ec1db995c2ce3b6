package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiterWindow(t *testing.T) {
	l := NewMemoryLimiter()
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "ip", 2, time.Minute))
	assert.True(t, l.Allow(ctx, "ip", 2, time.Minute))
	assert.False(t, l.Allow(ctx, "ip", 2, time.Minute))
	assert.True(t, l.Allow(ctx, "other", 2, time.Minute))

	current = current.Add(61 * time.Second)
	assert.True(t, l.Allow(ctx, "ip", 2, time.Minute))
}

func TestLimiterDisabledInputs(t *testing.T) {
	l := NewMemoryLimiter()
	assert.True(t, l.Allow(context.Background(), "", 1, time.Minute))
	assert.True(t, l.Allow(context.Background(), "k", 0, time.Minute))

	var r *RedisLimiter
	assert.True(t, r.Allow(context.Background(), "k", 1, time.Minute))
}
