package db_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/orders-backend/internal/db"
	"github.com/unclebandit/orders-backend/internal/db/dbtest"
)

func TestOpenRejectsBadConfig(t *testing.T) {
	ctx := context.Background()

	_, err := db.Open(ctx, db.Config{DriverName: "sqlite3"})
	assert.Error(t, err)

	_, err = db.Open(ctx, db.Config{DriverName: "oracle", DSN: "x"})
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestMigrateCreatesTables(t *testing.T) {
	d := dbtest.New(t)
	ctx := context.Background()

	for _, table := range []string{"customers", "products"} {
		var n int
		err := d.QueryRow(ctx, "SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)

		err = d.QueryRow(ctx, "SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = ?", "ix_"+table+"_name").Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}

	version, dirty, err := d.MigrationVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	// idempotent
	require.NoError(t, d.Migrate(ctx))
}

func TestMigrateDown(t *testing.T) {
	d := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, d.MigrateDown(ctx, 1))
	version, _, err := d.MigrationVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	_, err = d.Exec(ctx, "SELECT 1 FROM products")
	assert.Error(t, err)

	assert.Error(t, d.MigrateDown(ctx, 0))

	// the shared pool survives the migrate instance
	require.NoError(t, d.Ping(ctx))
}

func TestQueryRowNotFound(t *testing.T) {
	d := dbtest.New(t)

	var name string
	err := d.QueryRow(context.Background(), "SELECT name FROM customers WHERE id = ?", 42).Scan(&name)
	assert.True(t, db.IsNotFound(err))

	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.ErrNotFound, dbErr.Sentinel)
}

func TestCancelledContextMapsToTimeout(t *testing.T) {
	d := dbtest.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Exec(ctx, "INSERT INTO customers (name) VALUES (?)", "x")
	assert.True(t, db.IsTimeout(err), "got %v", err)
}

func TestInsertID(t *testing.T) {
	d := dbtest.New(t)
	ctx := context.Background()

	first, err := db.InsertID(ctx, d, "INSERT INTO customers (name) VALUES (?)", "id", "a")
	require.NoError(t, err)
	second, err := db.InsertID(ctx, d, "INSERT INTO customers (name) VALUES (?)", "id", "b")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestExecTxCommit(t *testing.T) {
	d := dbtest.New(t)
	ctx := context.Background()

	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		for i := 0; i < 3; i++ {
			if _, err := db.InsertID(ctx, tx, "INSERT INTO products (name) VALUES (?)", "id", fmt.Sprintf("p%d", i)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, d.QueryRow(ctx, "SELECT count(*) FROM products").Scan(&n))
	assert.Equal(t, 3, n)
}

func TestExecTxRollback(t *testing.T) {
	d := dbtest.New(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		if _, err := tx.Exec(ctx, "INSERT INTO products (name) VALUES (?)", "x"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		_ = d.ExecTx(ctx, func(tx *db.Tx) error {
			_, _ = tx.Exec(ctx, "INSERT INTO products (name) VALUES (?)", "y")
			panic("kaboom")
		})
	})

	var n int
	require.NoError(t, d.QueryRow(ctx, "SELECT count(*) FROM products").Scan(&n))
	assert.Zero(t, n)
}

func TestDialectRebind(t *testing.T) {
	q := "UPDATE customers SET name = ? WHERE id = ?"

	assert.Equal(t, "UPDATE customers SET name = $1 WHERE id = $2", db.Postgres.Rebind(q))
	assert.Equal(t, q, db.SQLite.Rebind(q))
	assert.Equal(t, q, db.MySQL.Rebind(q))

	assert.True(t, db.Postgres.SupportsReturning())
	assert.False(t, db.MySQL.SupportsReturning())
}

type recordingHook struct {
	mu      sync.Mutex
	queries []string
}

func (h *recordingHook) BeforeQuery(context.Context, string, []any) {}

func (h *recordingHook) AfterQuery(_ context.Context, q string, _ []any, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queries = append(h.queries, q)
}

type panicHook struct{}

func (panicHook) BeforeQuery(context.Context, string, []any) { panic("before") }
func (panicHook) AfterQuery(context.Context, string, []any, time.Duration, error) {
	panic("after")
}

func TestHooksRunAndRecoverPanics(t *testing.T) {
	rec := &recordingHook{}
	d, err := db.Open(context.Background(), db.Config{
		DriverName: "sqlite3",
		DSN:        ":memory:",
		Hooks:      []db.Hook{panicHook{}, nil, rec},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	_, err = d.Exec(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT 1"}, rec.queries)
}
