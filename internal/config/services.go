package config

import (
	"os"
	"time"
)

// GoogleConfig holds the OAuth client used for admin sign-in.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether Google sign-in is configured.
func (g GoogleConfig) Enabled() bool { return g.ClientID != "" && g.ClientSecret != "" }

// MongoConfig points at the document store holding chat transcripts.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// StorageConfig describes the S3 compatible bucket used for images.
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string // optional CDN/base URL placed in front of object keys
}

// Enabled reports whether object storage is configured.
func (s StorageConfig) Enabled() bool { return s.Endpoint != "" && s.Bucket != "" }

// SMTPConfig configures outgoing lead notifications.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether SMTP delivery is configured.
func (s SMTPConfig) Enabled() bool { return s.Host != "" }

// AssistantConfig configures the OpenAI-compatible chat completion API.
type AssistantConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

func loadGoogleConfig() GoogleConfig {
	return GoogleConfig{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  envStr("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
	}
}

func loadMongoConfig() MongoConfig {
	return MongoConfig{
		URI:            os.Getenv("MONGO_URI"),
		Database:       envStr("MONGO_DB", "julin"),
		ConnectTimeout: envDur("MONGO_CONNECT_TIMEOUT", 10*time.Second),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Endpoint:      os.Getenv("MINIO_ENDPOINT"),
		AccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey:     os.Getenv("MINIO_SECRET_KEY"),
		Bucket:        envStr("MINIO_BUCKET", "julin-media"),
		UseSSL:        envBool("MINIO_USE_SSL", false),
		PublicBaseURL: os.Getenv("MINIO_PUBLIC_BASE_URL"),
	}
}

func loadSMTPConfig() SMTPConfig {
	user := os.Getenv("SMTP_USER")
	return SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     envInt("SMTP_PORT", 587),
		User:     user,
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     envStr("SMTP_FROM", user),
	}
}

func loadAssistantConfig() AssistantConfig {
	return AssistantConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   envStr("OPENAI_MODEL", "gpt-4o-mini"),
		BaseURL: envStr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Timeout: envDur("OPENAI_TIMEOUT", 30*time.Second),
	}
}
