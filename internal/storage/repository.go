package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the ledger in a SQLite database. Expense rows
// keep their entry order in the position column.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements LedgerLoader
func (r *SQLiteRepository) Load(ctx context.Context) (*core.Ledger, error) {
	l := core.NewLedger()

	var budget string
	err := r.db.QueryRowContext(ctx, `SELECT budget FROM ledger_settings WHERE id = 1`).Scan(&budget)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// nothing saved yet
	case err != nil:
		return nil, fmt.Errorf("read budget: %w", err)
	default:
		m, err := parseStoredAmount(budget)
		if err != nil {
			return nil, fmt.Errorf("%w: budget %q: %v", ErrCorruptLedger, budget, err)
		}
		l.SetBudget(m)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT position, amount, category, date FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			position       int64
			amount         string
			category, date string
		)
		if err := rows.Scan(&position, &amount, &category, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		m, err := parseStoredAmount(amount)
		if err != nil {
			return nil, fmt.Errorf("%w: expense %d amount %q: %v", ErrCorruptLedger, position, amount, err)
		}
		l.Add(core.Expense{Amount: m, Category: category, Date: date})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptLedger, err)
	}

	slog.DebugContext(ctx, "Ledger loaded from SQLite",
		"expenses", len(l.Expenses),
		"budget", l.Budget.String())

	return l, nil
}

// Save implements LedgerSaver. The whole dataset is rewritten in one
// transaction.
func (r *SQLiteRepository) Save(ctx context.Context, l *core.Ledger) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO expenses (position, amount, category, date) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range l.Expenses {
		if _, err := stmt.ExecContext(ctx, i, e.Amount.Amount.String(), e.Category, e.Date); err != nil {
			return fmt.Errorf("insert expense %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_settings (id, budget) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET budget = excluded.budget`,
		l.Budget.Amount.String()); err != nil {
		return fmt.Errorf("save budget: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite",
		"expenses", len(l.Expenses),
		"budget", l.Budget.String())

	return nil
}

func parseStoredAmount(s string) (core.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.NewMoney(d), nil
}
