// Package jsonfile stores the ledger as a single JSON document:
//
//	{"expenses": [{"amount": 12.5, "category": "food", "date": "01-01-2024"}], "budget": 50}
//
// Every save rewrites the whole file through a temp file and a rename, so a
// reader never observes a half-written document.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"bilancio/internal/core"
	"bilancio/internal/fsutil"
	"bilancio/internal/storage"
)

const indent = "    "

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load implements storage.LedgerLoader. A missing file is an empty ledger;
// anything unreadable is wrapped in storage.ErrCorruptLedger.
func (s *Store) Load(ctx context.Context) (*core.Ledger, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(ctx, "Ledger file not found, starting empty", "path", s.path)
		return core.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}

	l, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	slog.DebugContext(ctx, "Ledger loaded from file",
		"path", s.path,
		"expenses", len(l.Expenses))
	return l, nil
}

// Save implements storage.LedgerSaver.
func (s *Store) Save(ctx context.Context, l *core.Ledger) error {
	b, err := Encode(l)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}
	slog.DebugContext(ctx, "Ledger saved to file",
		"path", s.path,
		"expenses", len(l.Expenses),
		"bytes", len(b))
	return nil
}

// Close implements storage.Store. No handle is held between calls.
func (s *Store) Close() error {
	return nil
}

// Decode parses a persisted document strictly: trailing data, bad numbers
// and negative amounts are all corrupt.
func Decode(b []byte) (*core.Ledger, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty file", storage.ErrCorruptLedger)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: null document", storage.ErrCorruptLedger)
	}
	var l core.Ledger
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorruptLedger, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: unexpected data after ledger document", storage.ErrCorruptLedger)
	}
	l.Normalize()
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorruptLedger, err)
	}
	return &l, nil
}

// Encode renders the ledger with four-space indentation.
func Encode(l *core.Ledger) ([]byte, error) {
	out := l.Clone()
	out.Normalize()
	b, err := json.MarshalIndent(out, "", indent)
	if err != nil {
		return nil, fmt.Errorf("encode ledger: %w", err)
	}
	return append(b, '\n'), nil
}
