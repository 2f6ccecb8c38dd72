// internal/config/config.go
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Minio      MinioConfig
	Upload     UploadConfig
	Processing ProcessingConfig
	Billing    BillingConfig
	Auth       AuthConfig
}

type StorageConfig struct {
	// Backend selects the object store: "minio" or "memory" (dev mode, no
	// external services).
	Backend string `envconfig:"STORAGE_BACKEND" default:"minio"`
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"creditpix"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

type MinioConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"creditpix-images"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type UploadConfig struct {
	// MaxSizeBytes is the hard ceiling for a single upload. 5 MiB.
	MaxSizeBytes int64 `envconfig:"UPLOAD_MAX_SIZE_BYTES" default:"5242880"`
	// UploadCost is the number of credits debited per accepted submission.
	UploadCost int `envconfig:"UPLOAD_COST" default:"1"`
}

type ProcessingConfig struct {
	// SimulatedLatency is how long a record stays in "processing" before the
	// scheduled completion fires.
	SimulatedLatency time.Duration `envconfig:"PROCESSING_SIMULATED_LATENCY" default:"5s"`
	// PollInterval is how often the status watcher re-reads the store.
	PollInterval time.Duration `envconfig:"PROCESSING_POLL_INTERVAL" default:"2s"`
}

type BillingConfig struct {
	// PaymentDelay simulates the round trip to a payment provider.
	PaymentDelay time.Duration `envconfig:"BILLING_PAYMENT_DELAY" default:"1500ms"`
}

type AuthConfig struct {
	JWTSecret     string        `envconfig:"JWT_SECRET" default:"change-me"`
	TokenDuration time.Duration `envconfig:"AUTH_TOKEN_DURATION" default:"24h"`
	SignupCredits int           `envconfig:"AUTH_SIGNUP_CREDITS" default:"5"`
	CookieDomain  string        `envconfig:"AUTH_COOKIE_DOMAIN" default:"localhost"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
