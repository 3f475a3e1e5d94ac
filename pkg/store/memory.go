package store

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/treelayout/pkg/errors"
	"github.com/matzehuels/treelayout/pkg/hierarchy"
)

// MemoryStore keeps runs in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string][]TreeDocument
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string][]TreeDocument), now: time.Now}
}

// SaveForest implements [Store]. Saving the same run id again replaces it.
func (s *MemoryStore) SaveForest(ctx context.Context, runID string, f *hierarchy.Forest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	docs := documents(runID, f, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = docs
	return nil
}

// LoadTree implements [Store].
func (s *MemoryStore) LoadTree(ctx context.Context, runID, root string) (*hierarchy.Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, ok := s.runs[runID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "run %s not found", runID)
	}
	for i := range docs {
		if docs[i].Root == root {
			return docs[i].Tree(), nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "tree %q not found in run %s", root, runID)
}

// Roots implements [Store].
func (s *MemoryStore) Roots(ctx context.Context, runID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, ok := s.runs[runID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "run %s not found", runID)
	}
	roots := make([]string, len(docs))
	for i, d := range docs {
		roots[i] = d.Root
	}
	return roots, nil
}

// Close implements [Store].
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
