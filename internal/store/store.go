package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/01moynul/taptosell-catalog/internal/database"
)

// Store runs catalog queries against either the pool or an open transaction.
type Store struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db, q: db}
}

// WithTx runs fn with a Store bound to a single transaction. All of fn's writes commit
// together or not at all.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		// Already inside a transaction.
		return fn(s)
	}
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return fn(&Store{q: tx})
	})
}

func (s *Store) get(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	err := sqlx.GetContext(ctx, s.q, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) selectInto(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, s.q, dest, query, args...)
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, s.q, &n, query, args...)
	return n, err
}

// in expands a "?"-style query with slice arguments and rebinds it for the driver.
func (s *Store) in(query string, args ...any) (string, []any, error) {
	q, a, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return s.q.Rebind(q), a, nil
}
