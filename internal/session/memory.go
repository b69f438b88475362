package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zefast/zefast_web/internal/mobcash"
)

type memoryEntry struct {
	sess      Session
	expiresAt time.Time
}

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryStore{ttl: ttl, now: time.Now, items: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Create(ctx context.Context, tokens mobcash.Tokens, user mobcash.User) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Tokens:    tokens,
		User:      user,
		CreatedAt: m.now().UTC(),
	}
	if err := m.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.now().After(e.expiresAt) {
		delete(m.items, id)
		return nil, ErrNotFound
	}
	sess := e.sess
	return &sess, nil
}

func (m *MemoryStore) Save(_ context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess.dirty = false
	m.items[sess.ID] = memoryEntry{sess: *sess, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}
