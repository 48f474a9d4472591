package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the process reads from its environment. A .env
// file in the working directory is loaded first when present.
type Config struct {
	HTTPAddr  string
	DBURL     string
	RedisURL  string
	UploadDir string

	JWTSecret string
	TokenTTL  time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	QueueConcurrency int

	// MfaDebugEcho returns the verification code in the login response.
	// Strictly a local-development affordance; defaults to off.
	MfaDebugEcho bool
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:         envOr("HTTP_ADDR", ":8080"),
		DBURL:            strings.TrimSpace(os.Getenv("DB_URL")),
		RedisURL:         envOr("REDIS_URL", "127.0.0.1:6379"),
		UploadDir:        envOr("UPLOAD_DIR", "uploads"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenTTL:         envDuration("TOKEN_TTL", 8*time.Hour),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         envInt("SMTP_PORT", 587),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		SMTPFrom:         envOr("SMTP_FROM", "no-reply@youchat.local"),
		QueueConcurrency: envInt("QUEUE_CONCURRENCY", 5),
		MfaDebugEcho:     envBool("MFA_DEBUG_ECHO", false),
	}

	if cfg.DBURL == "" {
		return nil, fmt.Errorf("config: DB_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
