package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notifier is told about every lead the consumer accepts.
type Notifier interface {
	NotifyLead(ctx context.Context, ev LeadCreatedEvent) error
}

// LeadConsumer drains the lead.created queue.  Each event becomes one line in
// the audit log and, when a notifier is set, an email to the admins.
type LeadConsumer struct {
	url      string
	logPath  string
	notifier Notifier
	log      *zap.Logger
}

// NewLeadConsumer builds a consumer writing to logPath.  notifier may be nil.
func NewLeadConsumer(url, logPath string, notifier Notifier, log *zap.Logger) *LeadConsumer {
	if logPath == "" {
		logPath = filepath.Join("logs", "leads.log")
	}
	return &LeadConsumer{url: url, logPath: logPath, notifier: notifier, log: log}
}

// Run connects and consumes until ctx is cancelled, reconnecting with
// exponential backoff capped at 30s.  It returns ctx.Err() on shutdown.
func (c *LeadConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("lead consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if err := sleepCtx(ctx, backoff); err != nil {
				return err
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("lead consumer: consume loop ended, reconnecting", zap.Error(err))
		if err := sleepCtx(ctx, 2*time.Second); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *LeadConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("lead consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(LeadQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(LeadQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(ctx, d.Body); err != nil {
				c.log.Error("lead consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // no requeue, avoids a poison loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle processes one message body.  A notification failure is logged and
// does not reject the message once the audit line is written.
func (c *LeadConsumer) Handle(ctx context.Context, body []byte) error {
	var ev LeadCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.LeadID == "" {
		return errors.New("event has no lead_id")
	}
	if err := c.appendLine(FormatLeadLine(ev)); err != nil {
		return err
	}
	if c.notifier != nil {
		if err := c.notifier.NotifyLead(ctx, ev); err != nil {
			c.log.Warn("lead consumer: notify failed", zap.String("lead_id", ev.LeadID), zap.Error(err))
		}
	}
	return nil
}

func (c *LeadConsumer) appendLine(line string) error {
	if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLeadLine renders ev as a single newline-terminated audit line.  Every
// field a visitor or the payload controls is quoted, so control characters
// are escaped and cannot start a line of their own.
func FormatLeadLine(ev LeadCreatedEvent) string {
	msg := strings.Join(strings.Fields(ev.Message), " ")
	return fmt.Sprintf("[%s] Lead received | lead_id=%q | property=%q | slug=%q | name=%q | email=%q | phone=%q | message=%q\n",
		strings.Join(strings.Fields(ev.CreatedAt), ""), ev.LeadID, ev.PropertyTitle, ev.PropertySlug, ev.Name, ev.Email, ev.Phone, msg)
}
