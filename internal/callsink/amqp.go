package callsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
)

// RoutingKey is used for every published call update.
const RoutingKey = "call.property_search"

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// opener dials the broker and returns a ready channel plus the connection
// that owns it.
type opener func() (channel, io.Closer, error)

// Publisher sends call updates as JSON events to a RabbitMQ topic exchange.
// A closed connection or channel is reopened on the next update.
type Publisher struct {
	exchange string
	open     opener

	mu   sync.Mutex
	conn io.Closer
	ch   channel
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	p := &Publisher{
		exchange: exchange,
		open:     func() (channel, io.Closer, error) { return dial(url, exchange) },
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.reopen(); err != nil {
		return nil, err
	}
	return p, nil
}

func dial(url, exchange string) (channel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return ch, conn, nil
}

// reopen drops the current session and opens a new one. Callers hold p.mu.
func (p *Publisher) reopen() error {
	_ = p.drop()
	ch, conn, err := p.open()
	if err != nil {
		return err
	}
	p.ch, p.conn = ch, conn
	return nil
}

// drop closes the current session, if any. Callers hold p.mu.
func (p *Publisher) drop() error {
	var firstErr error
	if p.ch != nil && !p.ch.IsClosed() {
		firstErr = p.ch.Close()
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil && !errors.Is(err, amqp.ErrClosed) {
			firstErr = err
		}
	}
	p.ch, p.conn = nil, nil
	return firstErr
}

type callEvent struct {
	EventID    string            `json:"event_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Update     domain.CallUpdate `json:"update"`
}

func (p *Publisher) UpdateCall(ctx context.Context, u domain.CallUpdate) error {
	now := time.Now().UTC()
	body, err := json.Marshal(callEvent{EventID: uuid.NewString(), OccurredAt: now, Update: u})
	if err != nil {
		return fmt.Errorf("marshal call event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		if err := p.reopen(); err != nil {
			return fmt.Errorf("reconnect rabbitmq: %w", err)
		}
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKey, false, false, msg)
	if errors.Is(err, amqp.ErrClosed) {
		// The broker went away between the check and the publish.
		if rerr := p.reopen(); rerr != nil {
			return fmt.Errorf("reconnect rabbitmq: %w", rerr)
		}
		err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKey, false, false, msg)
	}
	if err != nil {
		return fmt.Errorf("publish call event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.drop()
}
