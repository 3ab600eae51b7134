package db

import (
	"context"
	"log/slog"
	"time"
)

// Hook is called before and after every statement.
// Implementations must be goroutine-safe. Panics are recovered and logged.
type Hook interface {
	BeforeQuery(ctx context.Context, query string, args []any)
	// AfterQuery receives the already mapped error, nil on success.
	AfterQuery(ctx context.Context, query string, args []any, duration time.Duration, err error)
}

type hookChain struct {
	hooks []Hook
}

func newHookChain(hooks []Hook) hookChain {
	filtered := make([]Hook, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			filtered = append(filtered, h)
		}
	}
	return hookChain{hooks: filtered}
}

func (c hookChain) Before(ctx context.Context, query string, args []any) {
	for _, h := range c.hooks {
		safeBeforeQuery(h, ctx, query, args)
	}
}

func (c hookChain) After(ctx context.Context, query string, args []any, d time.Duration, err error) {
	for _, h := range c.hooks {
		safeAfterQuery(h, ctx, query, args, d, err)
	}
}

func safeBeforeQuery(h Hook, ctx context.Context, query string, args []any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("db: hook panic in BeforeQuery", "panic", r)
		}
	}()
	h.BeforeQuery(ctx, query, args)
}

func safeAfterQuery(h Hook, ctx context.Context, query string, args []any, d time.Duration, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("db: hook panic in AfterQuery", "panic", r)
		}
	}()
	h.AfterQuery(ctx, query, args, d, err)
}

// LogHookConfig configures the structured logging hook.
type LogHookConfig struct {
	// Logger defaults to slog.Default() if nil.
	Logger *slog.Logger
	// SlowQueryThreshold logs a warning when duration exceeds it. Zero disables.
	SlowQueryThreshold time.Duration
	// LogArgs includes bound parameters in log entries.
	LogArgs bool
}

// NewLogHook returns a Hook that logs every statement at debug level.
// ErrNotFound is not logged as an error; a missing row is an answer.
func NewLogHook(cfg LogHookConfig) Hook {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &logHook{cfg: cfg, logger: logger}
}

type logHook struct {
	cfg    LogHookConfig
	logger *slog.Logger
}

func (h *logHook) BeforeQuery(_ context.Context, _ string, _ []any) {}

func (h *logHook) AfterQuery(ctx context.Context, query string, args []any, d time.Duration, err error) {
	attrs := []any{
		slog.String("query", trimQuery(query)),
		slog.Duration("duration", d),
	}
	if h.cfg.LogArgs && len(args) > 0 {
		attrs = append(attrs, slog.Any("args", args))
	}

	if err != nil && !IsNotFound(err) {
		h.logger.ErrorContext(ctx, "db: query error", append(attrs, slog.Any("error", err))...)
		return
	}

	if h.cfg.SlowQueryThreshold > 0 && d > h.cfg.SlowQueryThreshold {
		h.logger.WarnContext(ctx, "db: slow query", attrs...)
		return
	}

	h.logger.DebugContext(ctx, "db: query", attrs...)
}

func trimQuery(q string) string {
	if len(q) > 500 {
		return q[:500] + "…"
	}
	return q
}
