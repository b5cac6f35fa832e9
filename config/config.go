package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Session   SessionConfigs
	Mail      MailConfigs
	Redis     RedisConfigs
}

type DatabaseConfigs struct {
	// Path of the sqlite database file.
	Path string

	// BusyTimeout bounds how long a write waits for the writer lock.
	BusyTimeout time.Duration
}

// DSN enables WAL journaling and foreign keys on every connection. Readers
// proceed against WAL snapshots while the single writer holds the lock.
func (d DatabaseConfigs) DSN() string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on",
		d.Path, d.BusyTimeout.Milliseconds())
}

type ServerConfigs struct {
	Host string
	Port string

	DefaultLimit int
	MaxLimit     int

	// AllowedOrigins is the CORS allow-list for browser clients.
	AllowedOrigins []string
}

type AuthConfigs struct {
	AccessToken      TokenConfigs
	VerifyEmailToken TokenConfigs

	// AdminSecret gates the operational endpoints. Mandatory.
	AdminSecret string

	Google OAuth2Configs
}

type TokenConfigs struct {
	Name       string
	Secret     string
	Expiration time.Duration
}

type OAuth2Configs struct {
	Name         string
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type MailConfigs struct {
	SMTPHost string
	SMTPPort string
	Username string
	Password string
	From     string
}

// Configured reports whether outgoing mail can be sent. When false, the
// verification token is logged instead of mailed.
func (m MailConfigs) Configured() bool {
	return m.SMTPHost != ""
}

type RedisConfigs struct {
	Addr string
}

// Load reads the configuration from the environment. Secrets have no
// defaults; a missing secret is a startup failure, not a placeholder.
func Load() (Configs, error) {
	cfg := Configs{
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
		Database: DatabaseConfigs{
			Path:        getEnv("DATABASE_PATH", "otakuhub.db"),
			BusyTimeout: getDurationEnv("DATABASE_BUSY_TIMEOUT", 60*time.Second),
		},
		ApiServer: ServerConfigs{
			Host:           getEnv("HOST", "localhost"),
			Port:           getEnv("PORT", "8080"),
			DefaultLimit:   getIntEnv("API_DEFAULT_LIMIT", 50),
			MaxLimit:       getIntEnv("API_MAX_LIMIT", 100),
			AllowedOrigins: splitNonEmpty(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Secret:     os.Getenv("TOKEN_SECRET"),
				Expiration: getDurationEnv("TOKEN_EXPIRATION", 24*time.Hour),
			},
			VerifyEmailToken: TokenConfigs{
				Name:       "verify_email_token",
				Secret:     os.Getenv("TOKEN_SECRET"),
				Expiration: getDurationEnv("VERIFY_EMAIL_TOKEN_EXPIRATION", 48*time.Hour),
			},
			AdminSecret: os.Getenv("ADMIN_SECRET"),
			Google: OAuth2Configs{
				Name:         "google",
				Issuer:       getEnv("GOOGLE_ISSUER", "https://accounts.google.com"),
				ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
				ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
				RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			},
		},
		Session: SessionConfigs{
			Secret: os.Getenv("SESSION_SECRET"),
			Name:   getEnv("SESSION_NAME", "otakuhub_session"),
		},
		Mail: MailConfigs{
			SMTPHost: os.Getenv("SMTP_HOST"),
			SMTPPort: getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Redis: RedisConfigs{
			Addr: os.Getenv("REDIS_ADDR"),
		},
	}

	if cfg.Auth.AccessToken.Secret == "" {
		return Configs{}, fmt.Errorf("TOKEN_SECRET is required")
	}

	if cfg.Auth.AdminSecret == "" {
		return Configs{}, fmt.Errorf("ADMIN_SECRET is required")
	}

	if cfg.Session.Secret == "" {
		return Configs{}, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getIntEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}

	return d
}

func splitNonEmpty(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
