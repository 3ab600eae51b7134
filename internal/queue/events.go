package queue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ResourceEventsTopic carries every customer and product change
const ResourceEventsTopic = "resource_events"

type EventType string

const (
	CustomerCreated EventType = "customer.created"
	CustomerUpdated EventType = "customer.updated"
	ProductCreated  EventType = "product.created"
	ProductUpdated  EventType = "product.updated"
)

// ResourceEvent is published after a successful create or update
type ResourceEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Resource   string    `json:"resource"`
	ResourceID int64     `json:"resource_id"`
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewResourceEvent(t EventType, resource string, id int64, path, name string) ResourceEvent {
	return ResourceEvent{
		ID:         uuid.NewString(),
		Type:       t,
		Resource:   resource,
		ResourceID: id,
		Path:       path,
		Name:       name,
		OccurredAt: time.Now().UTC(),
	}
}

// DecodeEvent accepts the in-memory value or an encoded broker body
func DecodeEvent(payload any) (ResourceEvent, error) {
	var raw []byte
	switch p := payload.(type) {
	case ResourceEvent:
		return p, nil
	case *ResourceEvent:
		if p == nil {
			return ResourceEvent{}, fmt.Errorf("nil resource event")
		}
		return *p, nil
	case []byte:
		raw = p
	case json.RawMessage:
		raw = p
	default:
		return ResourceEvent{}, fmt.Errorf("unexpected payload type %T", payload)
	}

	var ev ResourceEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ResourceEvent{}, fmt.Errorf("decode resource event: %w", err)
	}
	if ev.ID == "" || ev.Type == "" {
		return ResourceEvent{}, fmt.Errorf("resource event without id or type")
	}
	return ev, nil
}

// AuditHandler writes one structured log line per resource event. Malformed
// payloads are logged and dropped; retrying cannot fix them.
func AuditHandler(logger *slog.Logger) func(payload any) error {
	return func(payload any) error {
		ev, err := DecodeEvent(payload)
		if err != nil {
			logger.Error("dropping malformed event", "error", err)
			return nil
		}
		logger.Info("resource event",
			"event_id", ev.ID,
			"type", ev.Type,
			"resource", ev.Resource,
			"resource_id", ev.ResourceID,
			"path", ev.Path,
			"name", ev.Name,
			"occurred_at", ev.OccurredAt,
		)
		return nil
	}
}
