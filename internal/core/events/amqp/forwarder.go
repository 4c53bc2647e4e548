package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/core/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Envelope is the JSON body of every forwarded event.
type Envelope struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func NewEnvelope(event events.Event) Envelope {
	env := Envelope{
		ID:        event.EventID(),
		Type:      event.EventType(),
		Timestamp: event.OccurredAt(),
	}
	if data, ok := event.Payload().(map[string]interface{}); ok {
		env.Data = data
	} else if event.Payload() != nil {
		env.Data = map[string]interface{}{"payload": event.Payload()}
	}
	return env
}

// Forwarder republishes bus events to a direct exchange, using the event type as routing key.
type Forwarder struct {
	channel  Channel
	exchange string
	logger   *slog.Logger
}

func NewForwarder(ch Channel, exchange string, logger *slog.Logger) (*Forwarder, error) {
	if err := declareExchange(ch, exchange); err != nil {
		return nil, err
	}
	return &Forwarder{channel: ch, exchange: exchange, logger: logger}, nil
}

// Register subscribes the forwarder to the given event types on bus.
func (f *Forwarder) Register(bus *events.EventBus, eventTypes ...string) {
	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, f.Handle)
	}
}

func (f *Forwarder) Handle(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(NewEnvelope(event))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = f.channel.PublishWithContext(
		ctx,
		f.exchange,        // exchange
		event.EventType(), // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID(),
			Type:         event.EventType(),
			Timestamp:    event.OccurredAt(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	f.logger.Debug("event forwarded",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"exchange", f.exchange)
	return nil
}
