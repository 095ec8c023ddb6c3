// Command worker consumes lead.created events: each lead is appended to the
// audit log and emailed to the admins.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/config"
	"github.com/julin-realestate/realestate-api/internal/logger"
	"github.com/julin-realestate/realestate-api/internal/mailer"
	"github.com/julin-realestate/realestate-api/internal/queue"
)

func main() {
	cfg := config.LoadWorker()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var notifier queue.Notifier
	if n := mailer.NewLeadNotifier(cfg.SMTP, cfg.AdminEmails.Emails(), cfg.SiteURL, zl); n != nil {
		notifier = n
	} else {
		zl.Info("SMTP_HOST or ADMIN_EMAILS not set, lead emails disabled")
	}

	consumer := queue.NewLeadConsumer(cfg.AMQPURL, cfg.LeadLogPath, notifier, zl)
	zl.Info("lead worker started", zap.String("queue", queue.LeadQueueName), zap.String("log", cfg.LeadLogPath))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zl.Fatal("lead worker stopped", zap.Error(err))
	}
	zl.Info("lead worker stopped")
}
