// Package memory provides an in-process ledger backend for development and
// tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"xpense/internal/core"
)

type Store struct {
	mu   sync.Mutex
	rows map[string]core.Transaction
}

func New() *Store {
	return &Store{rows: map[string]core.Transaction{}}
}

func (s *Store) Upsert(_ context.Context, tx core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[tx.ID] = tx
	return fmt.Sprintf("mem:%s", tx.ID), nil
}

func (s *Store) Delete(_ context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, transactionID)
	return nil
}

// Snapshot returns a copy of the stored rows for assertions in tests.
func (s *Store) Snapshot() map[string]core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]core.Transaction, len(s.rows))
	for k, v := range s.rows {
		out[k] = v
	}
	return out
}
