// Package counter provides transactional counter store adapters for the
// generation guards.
package counter

import (
	"context"
	"sync"

	"github.com/petplates/mealengine/internal/ports/outbound"
)

// MemoryStore is an in-process CounterStore. A single mutex serializes
// all updates, which makes every read-modify-write trivially atomic.
// Intended for tests and single-node deployments.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

var _ outbound.CounterStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Update applies fn to the current value of key under the store lock.
// When fn returns an error nothing is written and the error is returned
// unchanged, so outbound.ErrTxAbort surfaces to the caller.
func (s *MemoryStore) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.docs[key])
	if err != nil {
		return err
	}

	stored := make([]byte, len(next))
	copy(stored, next)
	s.docs[key] = stored
	return nil
}

// Get returns the raw stored document, for tests.
func (s *MemoryStore) Get(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out
}
