// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Config holds all options for opening and managing the connection pool.
type Config struct {
	// DriverName is "sqlite3", "postgres" or "mysql".
	DriverName string
	DSN        string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// DefaultTimeout is applied when the caller's context has no deadline.
	// Zero means no default timeout.
	DefaultTimeout time.Duration

	// Hooks run around every statement. nil entries are skipped.
	Hooks []Hook
}

// DB is the store handle. It is opened once, injected into repositories and
// closed on shutdown. There is no package level connection.
type DB struct {
	sqldb   *sql.DB
	cfg     Config
	dialect Dialect
	hooks   hookChain
}

// Open opens the database described by cfg and verifies connectivity with Ping.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db: DSN must not be empty")
	}
	dialect, err := DialectFor(cfg.DriverName)
	if err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(cfg.DriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	if dialect == SQLite {
		// One writer at a time. Also keeps :memory: databases on a single
		// connection, which is the only place they exist.
		sqldb.SetMaxOpenConns(1)
		sqldb.SetMaxIdleConns(1)
		sqldb.SetConnMaxLifetime(0)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	d := &DB{
		sqldb:   sqldb,
		cfg:     cfg,
		dialect: dialect,
		hooks:   newHookChain(cfg.Hooks),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := d.Ping(pingCtx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return d, nil
}

// Raw returns the underlying *sql.DB
func (d *DB) Raw() *sql.DB { return d.sqldb }

func (d *DB) Dialect() Dialect { return d.dialect }

// Close closes all pooled connections
func (d *DB) Close() error { return d.sqldb.Close() }

// Ping verifies that the database is reachable
func (d *DB) Ping(ctx context.Context) error {
	ctx, cancel := d.withDefaultTimeout(ctx)
	defer cancel()
	return mapError(d.sqldb.PingContext(ctx))
}

// Exec executes a statement that returns no rows.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx, cancel := d.withDefaultTimeout(ctx)
	defer cancel()
	start := time.Now()
	d.hooks.Before(ctx, query, args)
	res, err := d.sqldb.ExecContext(ctx, query, args...)
	err = mapError(err)
	d.hooks.After(ctx, query, args, time.Since(start), err)
	return res, err
}

// Query executes a query that returns rows. The caller MUST close the rows.
// DefaultTimeout is not applied since the rows outlive this call.
func (d *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	d.hooks.Before(ctx, query, args)
	rows, err := d.sqldb.QueryContext(ctx, query, args...)
	err = mapError(err)
	d.hooks.After(ctx, query, args, time.Since(start), err)
	return rows, err
}

// QueryRow executes a query expected to return at most one row. Scan reports
// ErrNotFound when nothing matched.
func (d *DB) QueryRow(ctx context.Context, query string, args ...any) *Row {
	start := time.Now()
	d.hooks.Before(ctx, query, args)
	raw := d.sqldb.QueryRowContext(ctx, query, args...)
	d.hooks.After(ctx, query, args, time.Since(start), nil)
	return &Row{raw: raw}
}

func (d *DB) withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.cfg.DefaultTimeout == 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.cfg.DefaultTimeout)
}

// Row wraps *sql.Row and maps its errors.
type Row struct {
	raw *sql.Row
}

func (r *Row) Scan(dest ...any) error {
	return mapError(r.raw.Scan(dest...))
}

// InsertID runs an INSERT written with ? placeholders and returns the
// generated id of the named column.
func InsertID(ctx context.Context, q Querier, query, idColumn string, args ...any) (int64, error) {
	dialect := q.Dialect()
	if dialect.SupportsReturning() {
		var id int64
		err := q.QueryRow(ctx, dialect.Rebind(query)+" RETURNING "+idColumn, args...).Scan(&id)
		return id, err
	}

	res, err := q.Exec(ctx, dialect.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}
