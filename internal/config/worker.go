package config

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// WorkerConfig is the subset of settings the lead worker needs.  It does not
// touch the database, so no DB_* variables are required.
type WorkerConfig struct {
	Env         string
	LogLevel    string
	SiteURL     string
	AMQPURL     string
	LeadLogPath string
	AdminEmails AllowList
	SMTP        SMTPConfig
}

// LoadWorker reads the worker configuration.  Every variable is optional.
func LoadWorker() WorkerConfig {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: could not read .env: %v", err)
	}
	return WorkerConfig{
		Env:         envStr("APP_ENV", "dev"),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		SiteURL:     envStr("SITE_URL", "http://localhost:3000"),
		AMQPURL:     amqpURL(),
		LeadLogPath: envStr("LEAD_LOG_PATH", "logs/leads.log"),
		AdminEmails: ParseAllowList(os.Getenv("ADMIN_EMAILS")),
		SMTP:        loadSMTPConfig(),
	}
}
