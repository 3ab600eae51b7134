package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/orders-backend/internal/db"
	"github.com/unclebandit/orders-backend/internal/db/dbtest"
	appErrors "github.com/unclebandit/orders-backend/internal/errors"
	"github.com/unclebandit/orders-backend/internal/model"
	"github.com/unclebandit/orders-backend/internal/queue"
	"github.com/unclebandit/orders-backend/internal/repository"
)

// MockCustomerRepo stores customers in memory and can be told to fail
type MockCustomerRepo struct {
	mu        sync.Mutex
	customers map[int64]*model.Customer
	err       error
	calls     int
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.customers[id]
	if !ok {
		return nil, appErrors.NewNotFound(model.CustomerResource, id)
	}
	return c, nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newProcessor(customers customerGetter, products productGetter) (*EventProcessor, *syncBuffer) {
	out := &syncBuffer{}
	return &EventProcessor{
		Customers: customers,
		Products:  products,
		Logger:    slog.New(slog.NewJSONHandler(out, nil)),
	}, out
}

func encode(t *testing.T, ev queue.ResourceEvent) []byte {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return body
}

func TestHandleMatchingEvent(t *testing.T) {
	repo := &MockCustomerRepo{customers: map[int64]*model.Customer{1: {ID: 1, Name: "Acme"}}}
	p, out := newProcessor(repo, nil)

	ev := queue.NewResourceEvent(queue.CustomerCreated, model.CustomerResource, 1, "/customers/1", "Acme")
	require.NoError(t, p.Handle(encode(t, ev)))

	assert.Equal(t, 1, repo.calls)
	assert.Contains(t, out.String(), `"msg":"resource event processed"`)
	assert.Contains(t, out.String(), `"stale":false`)
}

func TestHandleStaleEvent(t *testing.T) {
	repo := &MockCustomerRepo{customers: map[int64]*model.Customer{1: {ID: 1, Name: "Renamed"}}}
	p, out := newProcessor(repo, nil)

	ev := queue.NewResourceEvent(queue.CustomerUpdated, model.CustomerResource, 1, "/customers/1", "Acme")
	require.NoError(t, p.Handle(ev))

	assert.Contains(t, out.String(), `"stale":true`)
}

func TestHandleMissingResourceIsDropped(t *testing.T) {
	p, out := newProcessor(&MockCustomerRepo{customers: map[int64]*model.Customer{}}, nil)

	ev := queue.NewResourceEvent(queue.CustomerCreated, model.CustomerResource, 42, "/customers/42", "Ghost")
	assert.NoError(t, p.Handle(ev))
	assert.Contains(t, out.String(), "event refers to missing resource")
}

func TestHandleUnavailableStoreIsRetried(t *testing.T) {
	repo := &MockCustomerRepo{err: fmt.Errorf("query: %w", db.ErrUnavailable)}
	p, _ := newProcessor(repo, nil)

	ev := queue.NewResourceEvent(queue.CustomerCreated, model.CustomerResource, 1, "/customers/1", "Acme")
	err := p.Handle(ev)
	require.Error(t, err)
	assert.True(t, db.IsUnavailable(err))
}

func TestHandleMalformedAndUnknownEvents(t *testing.T) {
	repo := &MockCustomerRepo{}
	p, out := newProcessor(repo, nil)

	assert.NoError(t, p.Handle([]byte("not json")))
	assert.NoError(t, p.Handle(queue.NewResourceEvent("order.created", "order", 1, "/orders/1", "x")))

	assert.Zero(t, repo.calls)
	assert.Contains(t, out.String(), "dropping malformed event")
	assert.Contains(t, out.String(), "ignoring event for unknown resource")
}

func TestHandleAgainstStore(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()

	products := repository.NewProductRepository(store)
	widget := &model.Product{Name: "Widget"}
	require.NoError(t, products.Create(ctx, widget))

	p, out := newProcessor(repository.NewCustomerRepository(store), products)

	q := queue.NewInMemoryQueue(p.Logger)
	require.NoError(t, q.Subscribe(queue.ResourceEventsTopic, p.Handle))

	ev := queue.NewResourceEvent(queue.ProductCreated, model.ProductResource, widget.ID, "/products/1", "Widget")
	require.NoError(t, q.Publish(queue.ResourceEventsTopic, ev))
	q.Wait()

	assert.Contains(t, out.String(), `"resource":"product"`)
	assert.Contains(t, out.String(), `"stale":false`)
}
