package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown grants a key at most once per window.
type Cooldown interface {
	// Acquire reports whether the key was free; when it was not, it also
	// returns the time left before it frees up.
	Acquire(ctx context.Context, key string, window time.Duration) (bool, time.Duration, error)
	Release(ctx context.Context, key string) error
}

const cooldownPrefix = "cooldown:v1:"

type RedisCooldown struct {
	rdb *redis.Client
}

func NewRedisCooldown(rdb *redis.Client) *RedisCooldown {
	return &RedisCooldown{rdb: rdb}
}

func (r *RedisCooldown) Acquire(ctx context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	ok, err := r.rdb.SetNX(ctx, cooldownPrefix+key, "1", window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("cooldown reserve: %w", err)
	}
	if ok {
		return true, 0, nil
	}
	left, err := r.rdb.TTL(ctx, cooldownPrefix+key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("cooldown ttl: %w", err)
	}
	if left < 0 {
		left = window
	}
	return false, left, nil
}

func (r *RedisCooldown) Release(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, cooldownPrefix+key).Err()
}

type MemoryCooldown struct {
	mu    sync.Mutex
	now   func() time.Time
	until map[string]time.Time
}

func NewMemoryCooldown() *MemoryCooldown {
	return &MemoryCooldown{now: time.Now, until: make(map[string]time.Time)}
}

func (m *MemoryCooldown) Acquire(_ context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if t, ok := m.until[key]; ok && now.Before(t) {
		return false, t.Sub(now), nil
	}
	m.until[key] = now.Add(window)
	return true, 0, nil
}

func (m *MemoryCooldown) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.until, key)
	return nil
}
