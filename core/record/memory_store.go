package record

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a mutex-guarded in-memory Store for tests and local
// development. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]Record),
	}
}

// List returns all records ordered by creation time, oldest first.
func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b Record) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		// Stable order for records created within the same instant.
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

// Get returns the record with the given id.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Create stores a new record.
func (s *MemoryStore) Create(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return ErrDuplicateID
	}
	s.records[rec.ID] = rec
	return nil
}

// Update replaces an existing record.
func (s *MemoryStore) Update(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; !exists {
		return ErrNotFound
	}
	s.records[rec.ID] = rec
	return nil
}

// Delete removes the record with the given id.
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}
