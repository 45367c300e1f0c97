package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultDialTimeout = 5 * time.Second
	heartbeat          = 10 * time.Second
)

// Publisher sends ticket events to QueueName.  Each call opens its own
// connection, so a broker outage never leaves a broken channel behind.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// Publish delivers ev as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, ev TicketEvent) error {
	timeout, ok := dialTimeout(ctx)
	if !ok {
		return fmt.Errorf("rabbitmq dial: %w", context.DeadlineExceeded)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: heartbeat,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	// default exchange, routing key = queue name
	if err := ch.PublishWithContext(ctx, "", QueueName, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// dialTimeout bounds the connect and handshake by ctx's deadline, or by
// defaultDialTimeout when ctx has none.  ok is false once the deadline has
// passed.
func dialTimeout(ctx context.Context) (time.Duration, bool) {
	dl, has := ctx.Deadline()
	if !has {
		return defaultDialTimeout, true
	}
	left := time.Until(dl)
	if left <= 0 {
		return 0, false
	}
	return min(left, defaultDialTimeout), true
}
