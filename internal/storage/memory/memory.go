package memory

import (
	"context"
	"sync"

	"bilancio/internal/core"
)

// Store keeps the ledger in process memory. Load and Save copy, so callers
// never share a slice with the store.
type Store struct {
	mu     sync.Mutex
	ledger *core.Ledger
	saves  int
}

func New() *Store {
	return &Store{}
}

// NewWithLedger seeds the store as if l had been saved before.
func NewWithLedger(l *core.Ledger) *Store {
	s := &Store{}
	if l != nil {
		s.ledger = l.Clone()
		s.ledger.Normalize()
	}
	return s
}

// Load returns a copy of the last saved ledger, or an empty one.
func (s *Store) Load(_ context.Context) (*core.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger == nil {
		return core.NewLedger(), nil
	}
	return s.ledger.Clone(), nil
}

// Save replaces the stored ledger with a copy of l.
func (s *Store) Save(_ context.Context, l *core.Ledger) error {
	c := l.Clone()
	c.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = c
	s.saves++
	return nil
}

func (s *Store) Close() error {
	return nil
}

// Saves reports how many times Save has been called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
