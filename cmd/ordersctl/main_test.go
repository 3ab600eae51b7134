package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(context.Background(), append([]string{"ordersctl"}, args...))
	require.NoError(t, err, "ordersctl %v", args)
	return out.String()
}

func TestMigrateSeedStatsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", filepath.Join(dir, "orders.sqlite"))
	t.Setenv("LOG_LEVEL", "error")
	env := filepath.Join(dir, "missing.env")

	assert.Contains(t, runApp(t, "migrate", "version", "--env", env), "schema version: none")
	assert.Contains(t, runApp(t, "migrate", "up", "--env", env), "schema version: 2 (dirty: false)")

	out := runApp(t, "seed", "--env", env, "--file", filepath.Join("testdata", "seed.json"))
	assert.Contains(t, out, "seeded 3 customers and 2 products")

	out = runApp(t, "stats", "--env", env)
	assert.Contains(t, out, "customers: 3")
	assert.Contains(t, out, "products:  2")

	assert.Contains(t, runApp(t, "migrate", "down", "--env", env, "--steps", "2"), "schema version: none")
}

func TestSeedRequiresFile(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(context.Background(), []string{"ordersctl", "seed"})
	assert.Error(t, err)
}
