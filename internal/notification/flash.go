package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LevelSuccess is the level of every queued flash; failures are answered as
// error JSON instead.
const LevelSuccess = "success"

// Flash is a one-shot message shown to the user on the next page render.
type Flash struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// FlashStore queues flashes per session.
type FlashStore interface {
	Push(ctx context.Context, sid string, f Flash) error
	Drain(ctx context.Context, sid string) ([]Flash, error)
}

const flashPrefix = "flash:v1:"

// maxQueued bounds the queue of a session nobody reads.
const maxQueued = 20

type RedisFlashStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisFlashStore(rdb *redis.Client, ttl time.Duration) *RedisFlashStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisFlashStore{rdb: rdb, ttl: ttl}
}

func (s *RedisFlashStore) Push(ctx context.Context, sid string, f Flash) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	key := flashPrefix + sid
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, raw)
		pipe.LTrim(ctx, key, -maxQueued, -1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push flash: %w", err)
	}
	return nil
}

func (s *RedisFlashStore) Drain(ctx context.Context, sid string) ([]Flash, error) {
	key := flashPrefix + sid
	var lrange *redis.StringSliceCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drain flash: %w", err)
	}
	out := make([]Flash, 0, len(lrange.Val()))
	for _, raw := range lrange.Val() {
		var f Flash
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

type MemoryFlashStore struct {
	mu     sync.Mutex
	queues map[string][]Flash
}

func NewMemoryFlashStore() *MemoryFlashStore {
	return &MemoryFlashStore{queues: make(map[string][]Flash)}
}

func (s *MemoryFlashStore) Push(_ context.Context, sid string, f Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := append(s.queues[sid], f)
	if len(q) > maxQueued {
		q = q[len(q)-maxQueued:]
	}
	s.queues[sid] = q
	return nil
}

func (s *MemoryFlashStore) Drain(_ context.Context, sid string) ([]Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[sid]
	delete(s.queues, sid)
	if q == nil {
		q = []Flash{}
	}
	return q, nil
}
