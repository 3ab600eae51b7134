// internal/service/product_service.go
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/unclebandit/orders-backend/internal/model"
	"github.com/unclebandit/orders-backend/internal/queue"
	"github.com/unclebandit/orders-backend/internal/repository"
	"github.com/unclebandit/orders-backend/internal/routes"
)

type ProductService struct {
	Repo   repository.ProductRepositoryInterface
	Queue  queue.Queue
	Logger *slog.Logger
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.Repo.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, body map[string]json.RawMessage) (*model.Product, error) {
	p, err := model.ImportProduct(body)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.publish(ctx, queue.ProductCreated, p)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, body map[string]json.RawMessage) (*model.Product, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Import(body); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.publish(ctx, queue.ProductUpdated, p)
	return p, nil
}

func (s *ProductService) publish(ctx context.Context, t queue.EventType, p *model.Product) {
	path := routes.Path(routes.GetProduct, map[string]string{"id": formatID(p.ID)})
	publishEvent(ctx, s.Queue, s.Logger, queue.NewResourceEvent(t, model.ProductResource, p.ID, path, p.Name))
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
