//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/orders-backend/internal/db"
	appErrors "github.com/unclebandit/orders-backend/internal/errors"
	"github.com/unclebandit/orders-backend/internal/model"
)

func newPostgres(t *testing.T) *db.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	pool.MaxWait = 60 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=orders",
			"POSTGRES_PASSWORD=orders",
			"POSTGRES_DB=orders",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("postgres://orders:orders@%s/orders?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var store *db.DB
	err = pool.Retry(func() error {
		var openErr error
		store, openErr = db.Open(context.Background(), db.Config{DriverName: "postgres", DSN: dsn, MaxOpenConns: 4})
		return openErr
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestPostgresRepositories(t *testing.T) {
	ctx := context.Background()
	store := newPostgres(t)

	customers := NewCustomerRepository(store)
	c := &model.Customer{Name: "Acme"}
	require.NoError(t, customers.Create(ctx, c))
	assert.Equal(t, int64(1), c.ID)

	c.Name = "Acme Corp"
	require.NoError(t, customers.Update(ctx, c))

	got, err := customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)

	err = customers.Update(ctx, &model.Customer{ID: 77, Name: "ghost"})
	assert.True(t, appErrors.IsNotFound(err))

	products := NewProductRepository(store)
	require.NoError(t, products.Create(ctx, &model.Product{Name: "Anvil"}))
	list, err := products.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Product{{ID: 1, Name: "Anvil"}}, list)

	version, dirty, err := store.MigrationVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
}
