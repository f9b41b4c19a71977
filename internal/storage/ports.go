package storage

import (
	"context"
	"errors"

	"bilancio/internal/core"
)

// ErrCorruptLedger marks persisted data that exists but cannot be read
// back as a valid ledger. It is never recovered from silently.
var ErrCorruptLedger = errors.New("corrupt ledger")

// Ports for ledger persistence.
type (
	// LedgerLoader reads the persisted ledger. A store with nothing
	// persisted yet returns core.NewLedger() and no error.
	LedgerLoader interface {
		Load(ctx context.Context) (*core.Ledger, error)
	}

	// LedgerSaver replaces the persisted ledger with l in full.
	LedgerSaver interface {
		Save(ctx context.Context, l *core.Ledger) error
	}

	Store interface {
		LedgerLoader
		LedgerSaver
		Close() error
	}
)
