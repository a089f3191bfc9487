package circuitbreaker

import (
	"context"
	"database/sql"
	"time"

	"perangkum/internal/observability/metrics"
)

// StoreGuard puts the document store's connection pool behind a breaker. It
// satisfies postgres.DBTX.
type StoreGuard struct {
	cb *CircuitBreaker
	db *sql.DB
}

// NewStoreGuard guards db with StoreConfig.
func NewStoreGuard(db *sql.DB) *StoreGuard {
	return NewStoreGuardWithConfig(db, StoreConfig())
}

// NewStoreGuardWithConfig guards db with cfg.
func NewStoreGuardWithConfig(db *sql.DB, cfg Config) *StoreGuard {
	return &StoreGuard{cb: New(cfg), db: db}
}

func (g *StoreGuard) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer metrics.RecordOperationDuration("query", time.Now())
	return Run(g.cb, func() (*sql.Rows, error) {
		return g.db.QueryContext(ctx, query, args...)
	})
}

func (g *StoreGuard) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer metrics.RecordOperationDuration("exec", time.Now())
	return Run(g.cb, func() (sql.Result, error) {
		return g.db.ExecContext(ctx, query, args...)
	})
}

// QueryRowContext bypasses the breaker: *sql.Row defers its error to Scan.
func (g *StoreGuard) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return g.db.QueryRowContext(ctx, query, args...)
}

// Breaker exposes the underlying breaker for health reporting.
func (g *StoreGuard) Breaker() *CircuitBreaker {
	return g.cb
}
