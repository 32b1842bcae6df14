package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Search    SearchConfig
	Mail      MailConfig
	Admin     AdminConfig
	Broadcast BroadcastConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	BaseURL     string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type SearchConfig struct {
	IndexDir string
}

type MailConfig struct {
	Host string
	Port int

	// DefaultSender is used when no explicit sender is given.
	DefaultSender string

	// AdminRecipient receives review-request emails.
	AdminRecipient string

	// ReviewInbox is the address whose plus-suffix routes email replies back
	// to a review token, e.g. review@jobs.example -> review+<token>@jobs.example.
	ReviewInbox string

	// Reviewers is the sender allow-list for the email-review webhook.
	Reviewers []string
}

type AdminConfig struct {
	// PasswordHash is the bcrypt hash of the single admin password.
	PasswordHash string
	JWTSecret    string
}

type BroadcastConfig struct {
	// Webhooks maps a service identifier to its webhook URL, parsed from
	// whitespace-separated "service=url" pairs.
	Webhooks map[string]string

	// ExpiryDays is how long a successful broadcast stays fresh before the
	// job becomes a candidate again.
	ExpiryDays int

	// CronSpec schedules the broadcast cycle; empty disables the scheduler.
	CronSpec string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optInt := func(key string, def int) int {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return def
		}
		return n
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		BaseURL:     req("BASE_URL"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
	}

	cfg.Search = SearchConfig{
		IndexDir: req("SEARCH_INDEX_DIR"),
	}

	cfg.Mail = MailConfig{
		Host:           opt("MAIL_HOST"),
		Port:           optInt("MAIL_PORT", 25),
		DefaultSender:  req("MAIL_DEFAULT_SENDER"),
		AdminRecipient: req("MAIL_ADMIN_RECIPIENT"),
		ReviewInbox:    req("MAIL_REVIEW_INBOX"),
		Reviewers:      splitList(opt("MAIL_REVIEWERS")),
	}

	cfg.Admin = AdminConfig{
		PasswordHash: opt("ADMIN_PASSWORD_HASH"),
		JWTSecret:    opt("ADMIN_JWT_SECRET"),
	}

	cfg.Broadcast = BroadcastConfig{
		Webhooks:   parsePairs(opt("BROADCAST_WEBHOOKS")),
		ExpiryDays: optInt("BROADCAST_EXPIRY_DAYS", 30),
		CronSpec:   opt("BROADCAST_CRON"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func parsePairs(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	out := map[string]string{}
	for _, field := range strings.Fields(raw) {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
