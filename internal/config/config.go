// Package config loads process configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs at start. Secrets and the
// admin identity are injected here rather than compiled in; the binary
// has no baked-in credentials.
type Config struct {
	Addr string

	JWTSecret  string
	SessionTTL time.Duration
	CookieName string

	AdminID       string
	AdminEmail    string
	AdminName     string
	AdminPassword string

	AllowedOrigins []string

	// Base URL resume links are derived from; files themselves are not stored.
	StorageBaseURL string

	// Optional. Empty AMQPUrl disables the lead.created pipeline.
	AMQPUrl     string
	NotifyEmail string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Addr: getEnv("ADDR", ":8080"),

		JWTSecret:  getEnv("JWT_SECRET", "your-secret-key"),
		SessionTTL: getDuration("SESSION_TTL", 24*time.Hour),
		CookieName: getEnv("AUTH_COOKIE_NAME", "auth_token"),

		AdminID:       getEnv("ADMIN_ID", "1"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminName:     getEnv("ADMIN_NAME", "Admin User"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "password123"),

		AllowedOrigins: []string{getEnv("CORS_ORIGIN", "*")},

		StorageBaseURL: getEnv("STORAGE_BASE_URL", "https://storage.example.com"),

		AMQPUrl:     os.Getenv("AMQP_URL"),
		NotifyEmail: os.Getenv("NOTIFY_EMAIL"),
		SMTPHost:    os.Getenv("MAIL_HOST"),
		SMTPPort:    getInt("MAIL_PORT", 587),
		SMTPUser:    os.Getenv("MAIL_USER"),
		SMTPPass:    os.Getenv("MAIL_PASS"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
