package journal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zefast/zefast_web/internal/mobcash"
)

type inMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewInMemory creates a concurrency-safe journal for development and tests.
func NewInMemory() Repository {
	return &inMemoryRepository{entries: make(map[string][]Entry)}
}

func (r *inMemoryRepository) Record(_ context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.UserID] = append(r.entries[e.UserID], e)
	return nil
}

func (r *inMemoryRepository) ListByUser(_ context.Context, userID string, limit int) ([]Entry, error) {
	r.mu.RLock()
	list := append([]Entry(nil), r.entries[userID]...)
	r.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if n := clampLimit(limit); len(list) > n {
		list = list[:n]
	}
	if list == nil {
		list = []Entry{}
	}
	return list, nil
}

func mobcashKind(s string) mobcash.Kind {
	if k, err := mobcash.ParseKind(s); err == nil {
		return k
	}
	return mobcash.Kind(s)
}
