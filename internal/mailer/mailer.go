// Package mailer emails admins about new leads over SMTP.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/julin-realestate/realestate-api/internal/config"
	"github.com/julin-realestate/realestate-api/internal/queue"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// LeadNotifier sends one plain-text email per lead to every admin.
type LeadNotifier struct {
	from    string
	to      []string
	siteURL string
	d       sender
	log     *zap.Logger
}

// NewLeadNotifier returns nil when SMTP is not configured or there is nobody
// to notify; the consumer then only writes the audit log.
func NewLeadNotifier(cfg config.SMTPConfig, to []string, siteURL string, log *zap.Logger) *LeadNotifier {
	if !cfg.Enabled() || len(to) == 0 {
		return nil
	}
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &LeadNotifier{
		from:    from,
		to:      to,
		siteURL: strings.TrimRight(siteURL, "/"),
		d:       gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		log:     log,
	}
}

func (n *LeadNotifier) message(ev queue.LeadCreatedEvent) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	if ev.Email != "" {
		m.SetHeader("Reply-To", ev.Email)
	}
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s", ev.PropertyTitle))

	var b strings.Builder
	fmt.Fprintf(&b, "%s is interested in %s.\n\n", ev.Name, ev.PropertyTitle)
	fmt.Fprintf(&b, "Email: %s\nPhone: %s\n", ev.Email, ev.Phone)
	if ev.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", ev.Message)
	}
	if ev.PropertySlug != "" {
		fmt.Fprintf(&b, "\n%s/properties/%s\n", n.siteURL, ev.PropertySlug)
	}
	m.SetBody("text/plain", b.String())
	return m
}

// NotifyLead implements queue.Notifier.  gomail has no context support, so
// cancellation only stops the wait, not the SMTP session.
func (n *LeadNotifier) NotifyLead(ctx context.Context, ev queue.LeadCreatedEvent) error {
	m := n.message(ev)

	done := make(chan error, 1)
	go func() { done <- n.d.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		return fmt.Errorf("lead email cancelled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send lead email: %w", err)
		}
	}
	n.log.Info("lead email sent", zap.String("lead_id", ev.LeadID), zap.Int("recipients", len(n.to)))
	return nil
}
