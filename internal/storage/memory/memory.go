package memory

import (
	"context"
	"sync"

	"lumina/internal/storage"
)

// Store keeps records in process memory. Nothing survives a restart.
type Store struct {
	mu     sync.Mutex
	items  map[string]string
	writes int
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{items: map[string]string{}}
}

// NewWithRecords returns a store pre-populated with records, for tests and
// for seeding a demo session.
func NewWithRecords(records map[string]string) *Store {
	s := New()
	for k, v := range records {
		s.items[k] = v
	}
	return s
}

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	s.writes++
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	s.writes++
	return nil
}

func (s *Store) Close() error { return nil }

// Writes counts Set and Delete calls since creation.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
