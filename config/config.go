// config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment (and .env when present).
type Config struct {
	AppEnv         string `env:"APP_ENV,default=development"`
	Port           string `env:"PORT,default=5200"`
	DatabaseURL    string `env:"DATABASE_URL"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`

	// Optional bearer token the gateway must present. Empty disables the check.
	ServiceToken string `env:"SERVICE_TOKEN"`
	// Role required in X-User-Roles for requirement writes and notification deletes. Empty disables the check.
	AdminRole string `env:"ADMIN_ROLE"`

	// any | sum
	CompetencyPolicy string `env:"COMPETENCY_POLICY,default=any"`

	NotificationRetentionDays int `env:"NOTIFICATION_RETENTION_DAYS,default=90"`

	DirectoryServiceURL   string        `env:"DIRECTORY_SERVICE_URL"`
	DirectoryServiceToken string        `env:"DIRECTORY_SERVICE_TOKEN"`
	DirectorySyncInterval time.Duration `env:"DIRECTORY_SYNC_INTERVAL,default=1m"`

	R2 R2Config
}

// R2Config holds Cloudflare R2 credentials used for artifact images.
type R2Config struct {
	AccountID       string `env:"CLOUDFLARE_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"R2_ACCESS_KEY_SECRET"`
	Bucket          string `env:"R2_BUCKET_NAME"`
	CDNBaseURL      string `env:"CDN_BASE_URL"`
}

// Enabled reports whether enough R2 settings are present to create a client.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.AccessKeyID != "" && r.AccessKeySecret != "" && r.Bucket != ""
}

// Load reads .env (if any) and decodes the environment into a Config.
func Load() (*Config, error) {
	// a missing .env is fine, the environment is read directly
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode env: %w", err)
	}
	cfg.CompetencyPolicy = strings.ToLower(strings.TrimSpace(cfg.CompetencyPolicy))
	return &cfg, nil
}

// RequireDatabase fails when DATABASE_URL is not configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable not set")
	}
	return nil
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.AppEnv) {
	case "prod", "production":
		return true
	}
	return false
}

// Origins returns ALLOWED_ORIGINS trimmed and re-joined for fiber's cors config.
func (c *Config) Origins() string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}
