// internal/service/customer_service.go
package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/unclebandit/orders-backend/internal/model"
	"github.com/unclebandit/orders-backend/internal/queue"
	"github.com/unclebandit/orders-backend/internal/repository"
	"github.com/unclebandit/orders-backend/internal/routes"
)

type CustomerService struct {
	Repo   repository.CustomerRepositoryInterface
	Queue  queue.Queue
	Logger *slog.Logger
}

func (s *CustomerService) List(ctx context.Context) ([]model.Customer, error) {
	return s.Repo.List(ctx)
}

// Get returns the customer or an appErrors.NotFoundError
func (s *CustomerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	return s.Repo.GetByID(ctx, id)
}

// Create validates body and inserts a new customer. Invalid bodies never
// reach the repository.
func (s *CustomerService) Create(ctx context.Context, body map[string]json.RawMessage) (*model.Customer, error) {
	c, err := model.ImportCustomer(body)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.publish(ctx, queue.CustomerCreated, c)
	return c, nil
}

// Update loads the customer, applies body and persists it. An unknown id is
// reported as not found and nothing is created.
func (s *CustomerService) Update(ctx context.Context, id int64, body map[string]json.RawMessage) (*model.Customer, error) {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Import(body); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.publish(ctx, queue.CustomerUpdated, c)
	return c, nil
}

func (s *CustomerService) publish(ctx context.Context, t queue.EventType, c *model.Customer) {
	path := routes.Path(routes.GetCustomer, map[string]string{"id": formatID(c.ID)})
	publishEvent(ctx, s.Queue, s.Logger, queue.NewResourceEvent(t, model.CustomerResource, c.ID, path, c.Name))
}
