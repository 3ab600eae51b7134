package service

import (
	"context"
	"log/slog"

	"github.com/unclebandit/orders-backend/internal/queue"
)

// publishEvent is fire-and-forget: a failed publish is logged and the
// request still succeeds.
func publishEvent(ctx context.Context, q queue.Queue, logger *slog.Logger, ev queue.ResourceEvent) {
	if q == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := q.Publish(queue.ResourceEventsTopic, ev); err != nil {
		logger.WarnContext(ctx, "failed to publish resource event",
			"type", ev.Type,
			"resource_id", ev.ResourceID,
			"error", err,
		)
	}
}
