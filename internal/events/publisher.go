// Package events publishes product change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"adalbertofjr/products-api/internal/product"
)

type EventType string

const (
	ProductCreated EventType = "product.created"
	ProductUpdated EventType = "product.updated"
)

type Event struct {
	Type       EventType       `json:"type"`
	Product    product.Product `json:"product"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewEvent(eventType EventType, p product.Product) Event {
	return Event{
		Type:       eventType,
		Product:    p,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }

// AMQPPublisher sends events to a durable topic exchange using the event
// type as routing key.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	msg, err := newPublishing(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx, p.exchange, string(ev.Type), false, false, msg)
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

func newPublishing(ev Event) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode event: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         string(ev.Type),
		Body:         body,
	}, nil
}
