package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Tx mirrors the DB API so repositories can run inside a transaction through
// the Querier interface.
type Tx struct {
	sqltx   *sql.Tx
	dialect Dialect
	hooks   hookChain
}

func (t *Tx) Dialect() Dialect { return t.dialect }

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	t.hooks.Before(ctx, query, args)
	res, err := t.sqltx.ExecContext(ctx, query, args...)
	err = mapError(err)
	t.hooks.After(ctx, query, args, time.Since(start), err)
	return res, err
}

// Query executes a query returning rows. The caller MUST close the rows.
func (t *Tx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	t.hooks.Before(ctx, query, args)
	rows, err := t.sqltx.QueryContext(ctx, query, args...)
	err = mapError(err)
	t.hooks.After(ctx, query, args, time.Since(start), err)
	return rows, err
}

func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) *Row {
	start := time.Now()
	t.hooks.Before(ctx, query, args)
	raw := t.sqltx.QueryRowContext(ctx, query, args...)
	t.hooks.After(ctx, query, args, time.Since(start), nil)
	return &Row{raw: raw}
}

// ExecTx starts a transaction, runs fn, and commits on success. It rolls back
// when fn returns an error or panics.
func (d *DB) ExecTx(ctx context.Context, fn func(*Tx) error) (err error) {
	sqltx, err := d.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return mapError(err)
	}

	tx := &Tx{sqltx: sqltx, dialect: d.dialect, hooks: d.hooks}

	defer func() {
		if p := recover(); p != nil {
			_ = sqltx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqltx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("db: rollback failed (%v) after: %w", rbErr, err)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = sqltx.Commit(); err != nil {
		return mapError(err)
	}
	return nil
}

// Querier is the interface shared by *DB and *Tx. Repositories accept it so
// they work both auto-committed and inside ExecTx.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) *Row
	Dialect() Dialect
}

var (
	_ Querier = (*DB)(nil)
	_ Querier = (*Tx)(nil)
)
