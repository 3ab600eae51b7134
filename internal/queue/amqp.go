package queue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// AMQPQueue publishes JSON messages to one durable queue per topic and
// consumes them with manual acknowledgement.
type AMQPQueue struct {
	conn   *amqp.Connection
	logger *slog.Logger

	mu       sync.Mutex
	pubCh    *amqp.Channel
	declared map[string]bool
	subChs   []*amqp.Channel
}

var _ Queue = (*AMQPQueue)(nil)

// DialAMQP connects to the broker at url
func DialAMQP(url string, logger *slog.Logger) (*AMQPQueue, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open publish channel: %w", err)
	}

	return &AMQPQueue{
		conn:     conn,
		logger:   logger,
		pubCh:    ch,
		declared: make(map[string]bool),
	}, nil
}

func declareQueue(ch *amqp.Channel, topic string) error {
	_, err := ch.QueueDeclare(
		topic, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	return nil
}

// Publish encodes payload as JSON and sends it as a persistent message
func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.declared[topic] {
		if err := declareQueue(q.pubCh, topic); err != nil {
			return err
		}
		q.declared[topic] = true
	}

	err = q.pubCh.Publish(
		"",    // default exchange
		topic, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe consumes topic on a dedicated channel. handler receives the raw
// JSON body as []byte.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("open consume channel: %w", err)
	}
	if err := declareQueue(ch, topic); err != nil {
		_ = ch.Close()
		return err
	}
	if err := ch.Qos(10, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := ch.Consume(
		topic,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume %s: %w", topic, err)
	}

	q.mu.Lock()
	q.subChs = append(q.subChs, ch)
	q.mu.Unlock()

	go func() {
		for d := range msgs {
			handleDelivery(q.logger, topic, d, handler)
		}
		q.logger.Info("consumer stopped", "topic", topic)
	}()
	return nil
}

// handleDelivery acks on success. A failed delivery is requeued once; a
// failed redelivery is dropped.
func handleDelivery(logger *slog.Logger, topic string, d amqp.Delivery, handler func(payload any) error) {
	err := handler(d.Body)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			logger.Error("ack failed", "topic", topic, "error", ackErr)
		}
		return
	}

	requeue := !d.Redelivered
	logger.Warn("message handling failed",
		"topic", topic,
		"redelivered", d.Redelivered,
		"requeue", requeue,
		"error", err,
	)
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		logger.Error("nack failed", "topic", topic, "error", nackErr)
	}
}

// NotifyClose reports the connection going away
func (q *AMQPQueue) NotifyClose() <-chan *amqp.Error {
	return q.conn.NotifyClose(make(chan *amqp.Error, 1))
}

// Close shuts down every channel and the connection
func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, ch := range q.subChs {
		_ = ch.Close()
	}
	q.subChs = nil
	_ = q.pubCh.Close()
	return q.conn.Close()
}
