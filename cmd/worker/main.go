package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/unclebandit/orders-backend/internal/config"
	"github.com/unclebandit/orders-backend/internal/container"
	"github.com/unclebandit/orders-backend/internal/logger"
	"github.com/unclebandit/orders-backend/internal/queue"
	"github.com/unclebandit/orders-backend/internal/repository"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("worker exited", "error", err)
		os.Exit(1)
	}
	log.Info("worker stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := container.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	q, err := queue.DialAMQP(cfg.AMQPURL, log)
	if err != nil {
		return err
	}
	defer q.Close()

	processor := &EventProcessor{
		Customers: repository.NewCustomerRepository(store),
		Products:  repository.NewProductRepository(store),
		Logger:    log,
	}
	if err := q.Subscribe(queue.ResourceEventsTopic, processor.Handle); err != nil {
		return err
	}

	log.Info("worker running, waiting for events...", "topic", queue.ResourceEventsTopic)

	closed := q.NotifyClose()
	select {
	case <-ctx.Done():
		log.Info("shutting down worker...")
		return nil
	case amqpErr := <-closed:
		if amqpErr == nil {
			return errors.New("broker connection closed")
		}
		return fmt.Errorf("broker connection lost: %w", amqpErr)
	}
}
