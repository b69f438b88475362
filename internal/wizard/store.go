package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zefast/zefast_web/internal/mobcash"
)

// Store keeps wizard state per session and kind. Load returns a fresh state
// when nothing is stored.
type Store interface {
	Load(ctx context.Context, sid string, kind mobcash.Kind) (*State, error)
	Save(ctx context.Context, sid string, st *State) error
	Delete(ctx context.Context, sid string, kind mobcash.Kind) error
}

func stateKey(sid string, kind mobcash.Kind) string {
	return "wizard:v1:" + sid + ":" + string(kind)
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, sid string, kind mobcash.Kind) (*State, error) {
	raw, err := s.rdb.Get(ctx, stateKey(sid, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(kind), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load wizard: %w", err)
	}
	return decodeState(raw, kind)
}

func (s *RedisStore) Save(ctx context.Context, sid string, st *State) error {
	st.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode wizard: %w", err)
	}
	if err := s.rdb.Set(ctx, stateKey(sid, st.Kind), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save wizard: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string, kind mobcash.Kind) error {
	return s.rdb.Del(ctx, stateKey(sid, kind)).Err()
}

// MemoryStore is the in-process Store used when Redis is not configured.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memoryState
}

type memoryState struct {
	raw       []byte
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, items: make(map[string]memoryState)}
}

func (m *MemoryStore) Load(_ context.Context, sid string, kind mobcash.Kind) (*State, error) {
	m.mu.Lock()
	item, ok := m.items[stateKey(sid, kind)]
	if ok && m.ttl > 0 && m.now().After(item.expiresAt) {
		delete(m.items, stateKey(sid, kind))
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return New(kind), nil
	}
	return decodeState(item.raw, kind)
}

func (m *MemoryStore) Save(_ context.Context, sid string, st *State) error {
	st.UpdatedAt = m.now().UTC()
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode wizard: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[stateKey(sid, st.Kind)] = memoryState{raw: raw, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sid string, kind mobcash.Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, stateKey(sid, kind))
	return nil
}

func decodeState(raw []byte, kind mobcash.Kind) (*State, error) {
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode wizard: %w", err)
	}
	st.Kind = kind
	if st.Step < StepPlatform || st.Step > StepAmount {
		st.Step = StepPlatform
	}
	return &st, nil
}
