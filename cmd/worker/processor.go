package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	appErrors "github.com/unclebandit/orders-backend/internal/errors"
	"github.com/unclebandit/orders-backend/internal/model"
	"github.com/unclebandit/orders-backend/internal/queue"
)

var errUnknownResource = errors.New("unknown resource")

type customerGetter interface {
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
}

type productGetter interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}

// EventProcessor reconciles resource events against the store. Events whose
// resource no longer matches are logged as stale; store outages are returned
// so the broker redelivers the message.
type EventProcessor struct {
	Customers customerGetter
	Products  productGetter
	Logger    *slog.Logger
	Timeout   time.Duration
}

func (p *EventProcessor) Handle(payload any) error {
	ev, err := queue.DecodeEvent(payload)
	if err != nil {
		p.Logger.Error("dropping malformed event", "error", err)
		return nil
	}

	timeout := p.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	current, err := p.currentName(ctx, ev)
	switch {
	case err == nil:
	case appErrors.IsNotFound(err):
		p.Logger.Warn("event refers to missing resource",
			"event_id", ev.ID,
			"resource", ev.Resource,
			"resource_id", ev.ResourceID,
		)
		return nil
	case errors.Is(err, errUnknownResource):
		p.Logger.Warn("ignoring event for unknown resource", "event_id", ev.ID, "resource", ev.Resource)
		return nil
	default:
		return fmt.Errorf("load %s %d: %w", ev.Resource, ev.ResourceID, err)
	}

	p.Logger.Info("resource event processed",
		"event_id", ev.ID,
		"type", ev.Type,
		"resource", ev.Resource,
		"resource_id", ev.ResourceID,
		"path", ev.Path,
		"stale", current != ev.Name,
	)
	return nil
}

func (p *EventProcessor) currentName(ctx context.Context, ev queue.ResourceEvent) (string, error) {
	switch ev.Resource {
	case model.CustomerResource:
		c, err := p.Customers.GetByID(ctx, ev.ResourceID)
		if err != nil {
			return "", err
		}
		return c.Name, nil
	case model.ProductResource:
		pr, err := p.Products.GetByID(ctx, ev.ResourceID)
		if err != nil {
			return "", err
		}
		return pr.Name, nil
	default:
		return "", errUnknownResource
	}
}
