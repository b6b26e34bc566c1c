package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeKind = "topic"

// Publisher pushes outbox events to a durable topic exchange, keyed by event topic.
type Publisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	p := &Publisher{url: url, exchange: exchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return errs.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return errs.Wrap(err, "open channel")
	}
	if err := ch.ExchangeDeclare(p.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return errs.Wrap(err, "declare exchange")
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return errs.Wrap(err, "enable publisher confirms")
	}
	p.conn, p.ch = conn, ch
	return nil
}

// channel reopens the connection when the broker closed it since the last publish.
func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	slog.Warn("rabbitmq channel closed, reconnecting", "exchange", p.exchange)
	p.closeLocked()
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p.ch, nil
}

// Publish returns once the broker has confirmed the message. A nack or a closed channel
// is an error, so the relay keeps the event queued.
func (p *Publisher) Publish(ctx context.Context, event shared.OutboxEvent) error {
	ch, err := p.channel()
	if err != nil {
		return err
	}

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, event.Topic, false, false, toPublishing(event))
	if err != nil {
		return errs.Wrapf(err, "publish %s", event.Topic)
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return errs.Wrapf(err, "await confirm for %s", event.Topic)
	}
	if !acked {
		return errs.Wrapf(errBrokerNack, "publish %s", event.Topic)
	}
	return nil
}

var errBrokerNack = errs.New("broker nacked message")

func toPublishing(event shared.OutboxEvent) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.CreatedAt,
		Type:         event.Topic,
		Headers: amqp.Table{
			"aggregate_id": event.AggregateID.String(),
			"attempt":      event.Attempts + 1,
		},
		Body: event.Payload,
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *Publisher) closeLocked() error {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		if err != nil && !errs.Is(err, amqp.ErrClosed) {
			return err
		}
	}
	return nil
}

// LogPublisher stands in when no broker is configured; events are logged and considered delivered.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event shared.OutboxEvent) error {
	slog.InfoContext(ctx, "outbox event (no broker configured)",
		"event_id", event.ID.String(),
		"topic", event.Topic,
		"aggregate_id", event.AggregateID.String(),
		"created_at", event.CreatedAt.Format(time.RFC3339))
	return nil
}
