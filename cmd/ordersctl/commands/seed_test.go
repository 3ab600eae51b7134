package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/orders-backend/internal/db/dbtest"
	appErrors "github.com/unclebandit/orders-backend/internal/errors"
	"github.com/unclebandit/orders-backend/internal/repository"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSeedInsertsAllRecords(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()

	res, err := Seed(ctx, store, writeSeed(t, `{
		"customers": [{"name": "Acme"}, {"name": "Globex", "unused": 1}],
		"products": [{"name": "Widget"}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Customers: 2, Products: 1}, res)

	customers, err := repository.NewCustomerRepository(store).List(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "Acme", customers[0].Name)
	assert.Equal(t, "Globex", customers[1].Name)

	n, err := repository.NewProductRepository(store).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSeedRejectsInvalidRecordWithoutWriting(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()

	_, err := Seed(ctx, store, writeSeed(t, `{
		"customers": [{"name": "Acme"}],
		"products": [{"name": "Widget"}, {"title": "no name"}]
	}`))
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
	assert.Contains(t, err.Error(), "products[1]")
	assert.Contains(t, err.Error(), "Invalid product: missing name")

	n, err := repository.NewCustomerRepository(store).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeedBadFile(t *testing.T) {
	store := dbtest.New(t)

	_, err := Seed(context.Background(), store, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Seed(context.Background(), store, writeSeed(t, `{"customers": "nope"}`))
	assert.Error(t, err)
}

func TestSeedEmptyFile(t *testing.T) {
	store := dbtest.New(t)

	res, err := Seed(context.Background(), store, writeSeed(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, res)
}
