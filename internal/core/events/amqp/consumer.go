package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

var ErrDeliveriesClosed = errors.New("message channel closed")

// Consumer reads forwarded events from a durable queue bound to the exchange.
type Consumer struct {
	channel  Channel
	exchange string
	queue    string
	logger   *slog.Logger
}

func NewConsumer(ch Channel, exchange, queue string, logger *slog.Logger) *Consumer {
	return &Consumer{channel: ch, exchange: exchange, queue: queue, logger: logger}
}

// Setup declares the exchange and queue and binds one routing key per event type.
func (c *Consumer) Setup(eventTypes ...string) error {
	if err := declareExchange(c.channel, c.exchange); err != nil {
		return err
	}

	_, err := c.channel.QueueDeclare(
		c.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	for _, eventType := range eventTypes {
		if err := c.channel.QueueBind(c.queue, eventType, c.exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue to %s: %w", eventType, err)
		}
	}
	return nil
}

// Consume blocks until ctx is done or the delivery channel closes. Malformed
// messages are dropped; handler failures are requeued.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, Envelope) error) error {
	msgs, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.Info("started consuming expense events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return ErrDeliveriesClosed
			}

			var env Envelope
			if err := json.Unmarshal(delivery.Body, &env); err != nil {
				c.logger.Error("failed to unmarshal message", "error", err)
				delivery.Nack(false, false)
				continue
			}

			if err := handler(ctx, env); err != nil {
				c.logger.Error("failed to handle message",
					"error", err,
					"event_type", env.Type,
					"event_id", env.ID)
				delivery.Nack(false, true)
				continue
			}

			delivery.Ack(false)
		}
	}
}
