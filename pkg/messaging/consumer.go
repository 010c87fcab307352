package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/looply/looply-backend/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

const maxRetries = 3

// RetryCountHeader counts how often a delivery was handed back for another attempt
const RetryCountHeader = "x-retry-count"

// MessageHandler is a function that handles a message
type MessageHandler func(ctx context.Context, event *Event) error

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRetry
	outcomeReject
)

// Consumer handles consuming events from RabbitMQ
type Consumer struct {
	rmq       *RabbitMQ
	queueName string
	handlers  map[string]MessageHandler
	logger    *logger.Logger
	retry     func(ctx context.Context, msg amqp.Delivery, retries int) error
}

// NewConsumer creates a new consumer for the given queue
func NewConsumer(rmq *RabbitMQ, queueName string, log *logger.Logger) (*Consumer, error) {
	if _, err := rmq.DeclareQueue(queueName); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return newConsumer(rmq, queueName, log), nil
}

func newConsumer(rmq *RabbitMQ, queueName string, log *logger.Logger) *Consumer {
	c := &Consumer{
		rmq:       rmq,
		queueName: queueName,
		handlers:  make(map[string]MessageHandler),
		logger:    log,
	}
	c.retry = c.republish
	return c
}

// Subscribe binds the queue to exchange with a routing key pattern
func (c *Consumer) Subscribe(exchange, routingKeyPattern string) error {
	if err := c.rmq.DeclareExchange(exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := c.rmq.BindQueue(c.queueName, exchange, routingKeyPattern); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	c.logger.Info().
		Str("queue", c.queueName).
		Str("exchange", exchange).
		Str("routing_key", routingKeyPattern).
		Msg("subscribed to exchange")

	return nil
}

// RegisterHandler registers a handler for a specific event type
func (c *Consumer) RegisterHandler(eventType string, handler MessageHandler) {
	c.handlers[eventType] = handler
}

// Start starts consuming messages from the queue until ctx is done.
// A closed delivery channel triggers a reconnect and a fresh consume.
func (c *Consumer) Start(ctx context.Context) error {
	msgs, err := c.consume()
	if err != nil {
		return err
	}

	c.logger.Info().Str("queue", c.queueName).Msg("consumer started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info().Str("queue", c.queueName).Msg("consumer stopped")
				return
			case msg, ok := <-msgs:
				if ok {
					c.handleMessage(ctx, msg)
					continue
				}
				c.logger.Warn().Str("queue", c.queueName).Msg("message channel closed")
				if err := c.rmq.Reconnect(ctx); err != nil {
					c.logger.Error().Err(err).Msg("giving up on consumer")
					return
				}
				if msgs, err = c.consume(); err != nil {
					c.logger.Error().Err(err).Msg("failed to resume consuming")
					return
				}
			}
		}
	}()

	return nil
}

func (c *Consumer) consume() (<-chan amqp.Delivery, error) {
	msgs, err := c.rmq.Channel().Consume(
		c.queueName, // queue
		"",          // consumer tag (auto-generated)
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}
	return msgs, nil
}

func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	retries := getRetryCount(msg)

	switch c.dispatch(ctx, msg.Body, retries) {
	case outcomeAck:
		msg.Ack(false)
	case outcomeRetry:
		// A plain requeue carries no death count, so the copy goes back
		// with an incremented header and the original is acked.
		if err := c.retry(ctx, msg, retries+1); err != nil {
			c.logger.Error().Err(err).Str("queue", c.queueName).Msg("failed to republish for retry, sending to DLQ")
			msg.Reject(false)
			return
		}
		msg.Ack(false)
	case outcomeReject:
		msg.Reject(false)
	}
}

// republish puts a copy of msg back on the consumer's queue via the default exchange
func (c *Consumer) republish(ctx context.Context, msg amqp.Delivery, retries int) error {
	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[RetryCountHeader] = int32(retries)

	return c.rmq.Channel().PublishWithContext(ctx,
		"",          // default exchange
		c.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:   msg.ContentType,
			DeliveryMode:  amqp.Persistent,
			MessageId:     msg.MessageId,
			CorrelationId: msg.CorrelationId,
			Timestamp:     msg.Timestamp,
			Type:          msg.Type,
			Headers:       headers,
			Body:          msg.Body,
		},
	)
}

// dispatch runs the handler for body and decides what happens to the delivery
func (c *Consumer) dispatch(ctx context.Context, body []byte, retries int) outcome {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Error().Err(err).Msg("failed to unmarshal event")
		return outcomeReject
	}

	ctx = WithCorrelationID(ctx, event.CorrelationID)

	handler, ok := c.handlers[event.Type]
	if !ok {
		c.logger.Debug().Str("event_type", event.Type).Msg("no handler registered for event type")
		return outcomeAck
	}

	if err := handler(ctx, &event); err != nil {
		c.logger.Error().
			Err(err).
			Str("event_type", event.Type).
			Str("event_id", event.ID).
			Msg("failed to process event")

		if retries >= maxRetries {
			c.logger.Warn().
				Str("event_id", event.ID).
				Int("retry_count", retries).
				Msg("max retries exceeded, sending to DLQ")
			return outcomeReject
		}
		return outcomeRetry
	}

	return outcomeAck
}

// getRetryCount reads the retry header, falling back to the broker's death count
func getRetryCount(msg amqp.Delivery) int {
	if msg.Headers == nil {
		return 0
	}

	switch n := msg.Headers[RetryCountHeader].(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	}

	if deaths, ok := msg.Headers["x-death"].([]interface{}); ok {
		for _, death := range deaths {
			if d, ok := death.(amqp.Table); ok {
				if count, ok := d["count"].(int64); ok {
					return int(count)
				}
			}
		}
	}

	return 0
}
