// Package dbtest opens migrated in-memory sqlite stores for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unclebandit/orders-backend/internal/db"
)

// New returns a fresh, fully migrated store closed at test cleanup.
func New(t testing.TB) *db.DB {
	t.Helper()

	ctx := context.Background()
	d, err := db.Open(ctx, db.Config{
		DriverName: "sqlite3",
		DSN:        ":memory:",
		Hooks:      []db.Hook{db.NewLogHook(db.LogHookConfig{LogArgs: true})},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	require.NoError(t, d.Migrate(ctx))
	return d
}
