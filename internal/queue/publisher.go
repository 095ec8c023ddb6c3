package queue

import (
	"context"
	"encoding/json"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DefaultPublishDialTimeout bounds the TCP connect and AMQP handshake of one
// publish.
const DefaultPublishDialTimeout = 3 * time.Second

// Publisher sends lead events to RabbitMQ.  Errors are logged and returned
// so callers can ignore them without interrupting the request.
type Publisher struct {
	url         string
	dialTimeout time.Duration
	log         *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	return &Publisher{url: url, dialTimeout: DefaultPublishDialTimeout, log: log}
}

// dialer connects under ctx and keeps a deadline on the socket until the
// AMQP handshake completes; the library clears it afterwards.
func (p *Publisher) dialer(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		d := net.Dialer{Timeout: p.dialTimeout}
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		if err := conn.SetDeadline(time.Now().Add(p.dialTimeout)); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

// PublishLeadCreated publishes ev to the lead.created queue as a persistent
// message.  Each call uses its own connection; lead volume is low.  Callers
// run it inside a request, so connecting is bounded by dialTimeout and ctx.
func (p *Publisher) PublishLeadCreated(ctx context.Context, ev LeadCreatedEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      p.dialer(ctx),
	})
	if err != nil {
		p.log.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent.  Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		LeadQueueName, // name
		true,          // durable
		false,         // autoDelete
		false,         // exclusive
		false,         // noWait
		nil,           // args
	); err != nil {
		p.log.Warn("rabbitmq queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.LeadID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", LeadQueueName, false, false, pub); err != nil {
		p.log.Warn("rabbitmq publish failed", zap.String("lead_id", ev.LeadID), zap.Error(err))
		return err
	}
	return nil
}
