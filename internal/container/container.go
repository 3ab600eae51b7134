// Package container wires configuration into the store, the event queue and
// the services shared by every binary.
package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/unclebandit/orders-backend/internal/config"
	"github.com/unclebandit/orders-backend/internal/db"
	"github.com/unclebandit/orders-backend/internal/handler"
	"github.com/unclebandit/orders-backend/internal/queue"
	"github.com/unclebandit/orders-backend/internal/repository"
	"github.com/unclebandit/orders-backend/internal/service"
)

type Container struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *db.DB
	Queue  queue.Queue

	Customers *service.CustomerService
	Products  *service.ProductService

	closers []func() error
}

// OpenStore opens the configured database with the query log hook attached
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.DB, error) {
	store, err := db.Open(ctx, db.Config{
		DriverName:      cfg.DB.Driver,
		DSN:             cfg.DB.DSN(),
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnLifetime(),
		Hooks: []db.Hook{
			db.NewLogHook(db.LogHookConfig{Logger: logger, SlowQueryThreshold: 500 * time.Millisecond}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DB.Driver, err)
	}
	return store, nil
}

// NewQueue dials the broker when AMQP_URL is set. Otherwise events stay in
// process and are written to the audit log.
func NewQueue(cfg *config.Config, logger *slog.Logger) (queue.Queue, func() error, error) {
	if cfg.AMQPURL == "" {
		q := queue.NewInMemoryQueue(logger)
		if err := q.Subscribe(queue.ResourceEventsTopic, queue.AuditHandler(logger)); err != nil {
			return nil, nil, err
		}
		return q, func() error { q.Wait(); return nil }, nil
	}

	q, err := queue.DialAMQP(cfg.AMQPURL, logger)
	if err != nil {
		return nil, nil, err
	}
	return q, q.Close, nil
}

// New opens the store, migrates it when configured to, and builds the services
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, Logger: logger, DB: store, closers: []func() error{store.Close}}

	if cfg.DB.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}

	q, closeQueue, err := NewQueue(cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Queue = q
	// queue drains before the store closes
	c.closers = append([]func() error{closeQueue}, c.closers...)

	c.Customers = &service.CustomerService{
		Repo:   repository.NewCustomerRepository(store),
		Queue:  q,
		Logger: logger,
	}
	c.Products = &service.ProductService{
		Repo:   repository.NewProductRepository(store),
		Queue:  q,
		Logger: logger,
	}
	return c, nil
}

// Router builds the HTTP API over the container's services
func (c *Container) Router() http.Handler {
	base := c.Config.Server.PublicBaseURL
	return handler.NewRouter(handler.RouterConfig{
		Customers:      handler.NewCustomerHandler(c.Customers, base, c.Logger),
		Products:       handler.NewProductHandler(c.Products, base, c.Logger),
		Health:         handler.NewHealthHandler(c.DB, c.Logger),
		Logger:         c.Logger,
		AllowedOrigins: c.Config.CORS,
		RequestTimeout: time.Duration(c.Config.Server.WriteTimeout) * time.Second,
	})
}

// Close releases the queue and the store
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			c.Logger.Warn("close failed", "error", err)
		}
	}
	c.closers = nil
}
