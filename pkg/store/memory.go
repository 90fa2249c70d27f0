package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps records in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Record
	byID    map[string]*Record
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*Record)}
}

func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	prepare(rec)
	cp := *rec

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byID[cp.ID]; ok {
		*old = cp
		return nil
	}
	s.records = append(s.records, &cp)
	s.byID[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context, opts ListOptions) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Record
	for _, rec := range slices.Backward(s.records) {
		if opts.Name != "" && rec.Name != opts.Name {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	slices.SortStableFunc(out, func(a, b *Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > opts.limit() {
		out = out[:opts.limit()]
	}
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
