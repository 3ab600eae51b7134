package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/unclebandit/orders-backend/internal/config"
	"github.com/unclebandit/orders-backend/internal/container"
	"github.com/unclebandit/orders-backend/internal/db"
	"github.com/unclebandit/orders-backend/internal/logger"
)

// AppContext holds what every command needs
type AppContext struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger
}

// NewAppContext loads envFile and opens the configured store. Migrations are
// left to the migrate commands.
func NewAppContext(ctx context.Context, envFile string) (*AppContext, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	store, err := container.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &AppContext{Config: cfg, DB: store, Logger: log}, nil
}

func (ac *AppContext) Close() {
	if ac.DB != nil {
		if err := ac.DB.Close(); err != nil {
			ac.Logger.Warn("close store", "error", err)
		}
	}
}
