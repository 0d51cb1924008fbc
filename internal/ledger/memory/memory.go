// Package memory is an in-process ledger used by tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"farmbook/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	entries []ledger.Entry
}

var _ ledger.Ledger = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendEntry stores the entry and returns a synthetic row reference.
func (s *Store) AppendEntry(_ context.Context, e ledger.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return fmt.Sprintf("mem:%d", len(s.entries)), nil
}

// RemoveEntry drops the entry matching kind and id. Removing an
// entry that was never mirrored is not an error.
func (s *Store) RemoveEntry(_ context.Context, e ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, got := range s.entries {
		if got.Kind == e.Kind && got.ID == e.ID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

// Entries returns a copy of the mirrored rows.
func (s *Store) Entries() []ledger.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.Entry(nil), s.entries...)
}
