// Package storage implements the planner's stores on Postgres via pgx.
// Mutating service operations run inside TxManager.InTx; the transaction is
// carried in the context so every repository call within the closure joins it.
package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/planwerk/interviewplanner/libs/db"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
)

type txKey struct{}

// Querier is the subset of pgx shared by pools and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// runner selects the context's transaction when present, the pool otherwise.
func runner(ctx context.Context, pool *db.Pool) Querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return pool
}

// TxFromContext returns the transaction InTx bound to the context, if any.
// The outbox repository uses it to join booking writes atomically.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

type TxManager struct {
	pool *db.Pool
}

func NewTxManager(pool *db.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// InTx runs fn within a single database transaction. Nested calls join the
// transaction already carried by the context.
func (m *TxManager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}
