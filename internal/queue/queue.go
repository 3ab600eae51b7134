package queue

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue fans messages out to in-process subscribers with retry
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	inflight sync.WaitGroup
	logger   *slog.Logger

	// RetryDelay is multiplied by the attempt number between retries
	RetryDelay time.Duration
	MaxRetries int
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(logger *slog.Logger) *InMemoryQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		logger:     logger,
		RetryDelay: 500 * time.Millisecond,
		MaxRetries: 3,
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		job := JobPayload{
			Topic:      topic,
			Payload:    payload,
			MaxRetries: q.MaxRetries,
		}
		q.inflight.Add(1)
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	defer q.inflight.Done()

	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			q.logger.Debug("job processed", "topic", job.Topic)
			return
		}

		job.RetryCount++
		q.logger.Warn("job failed",
			"topic", job.Topic,
			"attempt", job.RetryCount,
			"max_retries", job.MaxRetries,
			"error", err,
		)

		if job.RetryCount > job.MaxRetries {
			q.logger.Error("job permanently failed", "topic", job.Topic, "attempts", job.RetryCount)
			return
		}

		time.Sleep(time.Duration(job.RetryCount) * q.RetryDelay)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every published job has finished, including retries
func (q *InMemoryQueue) Wait() {
	q.inflight.Wait()
}
