package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Notification backends understood by NOTIFY_BACKEND.
const (
	BackendSMTP = "smtp"
	BackendSES  = "ses"
	BackendLog  = "log"
)

// Config contains runtime configuration required by the service. It is built once at
// startup and handed to every component; nothing re-reads the environment later.
type Config struct {
	Port string `env:"PORT" envDefault:"5000"`

	// GoogleScriptURL is the Apps Script web app that appends rows to the sheet.
	// Empty is allowed: every persist call then fails fast.
	GoogleScriptURL string `env:"GOOGLE_SCRIPT_URL"`
	// DBURL enables the Postgres copy of every submission when set.
	DBURL string `env:"DB_URL"`

	NotifyBackend     string `env:"NOTIFY_BACKEND" envDefault:"smtp"`
	SMTP              SMTPConfig
	SESFromEmail      string `env:"SES_FROM_EMAIL"`
	TeamEmail         string `env:"TEAM_EMAIL"`
	TeamNotifyEnabled bool   `env:"TEAM_NOTIFY_ENABLED" envDefault:"false"`

	EmailJS EmailJSConfig

	SinkTimeout time.Duration `env:"SINK_TIMEOUT" envDefault:"15s"`
	StrictSinks bool          `env:"STRICT_SINKS" envDefault:"false"`

	AdminAPIKeysRaw string            `env:"ADMIN_API_KEYS"`
	AdminAPIKeys    map[string]string `env:"-"` // apiKey -> operator name

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// SMTPConfig is the relay used for confirmation emails.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Email    string `env:"SMTP_EMAIL" envDefault:"noreply.nexhub@gmail.com"`
	Password string `env:"SMTP_PASSWORD"`
	FromName string `env:"SMTP_FROM_NAME" envDefault:"NexHub Community"`
}

// EmailJSConfig holds the EmailJS account used for contact messages.
type EmailJSConfig struct {
	URL        string `env:"EMAILJS_URL" envDefault:"https://api.emailjs.com/api/v1.0/email/send"`
	ServiceID  string `env:"EMAILJS_SERVICE_ID"`
	TemplateID string `env:"EMAILJS_TEMPLATE_ID"`
	PublicKey  string `env:"EMAILJS_PUBLIC_KEY"`
	PrivateKey string `env:"EMAILJS_PRIVATE_KEY"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	environ := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}
	return Parse(environ)
}

// Parse builds a Config from an explicit variable set.
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.GoogleScriptURL = strings.TrimSpace(cfg.GoogleScriptURL)
	cfg.DBURL = strings.TrimSpace(cfg.DBURL)
	cfg.NotifyBackend = strings.ToLower(strings.TrimSpace(cfg.NotifyBackend))

	switch cfg.NotifyBackend {
	case BackendSMTP, BackendSES, BackendLog:
	default:
		return Config{}, fmt.Errorf("NOTIFY_BACKEND must be one of smtp, ses, log (got %q)", cfg.NotifyBackend)
	}

	if cfg.SinkTimeout <= 0 {
		return Config{}, errors.New("SINK_TIMEOUT must be positive")
	}

	keys, err := parseAPIKeys(cfg.AdminAPIKeysRaw)
	if err != nil {
		return Config{}, err
	}
	cfg.AdminAPIKeys = keys

	return cfg, nil
}

// TeamRecipient is where internal notices go: TEAM_EMAIL, else the SMTP account.
func (c Config) TeamRecipient() string {
	if c.TeamEmail != "" {
		return c.TeamEmail
	}
	return c.SMTP.Email
}

// Addr is the listen address derived from PORT.
func (c Config) Addr() string {
	return ":" + c.Port
}

// parseAPIKeys reads ADMIN_API_KEYS in the form "name1:key1,name2:key2".
func parseAPIKeys(raw string) (map[string]string, error) {
	keys := map[string]string{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return keys, nil
	}

	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts := strings.SplitN(p, ":", 2)
		if len(parts) != 2 {
			return nil, errors.New(`ADMIN_API_KEYS must be "name:key,name:key"`)
		}
		name := strings.TrimSpace(parts[0])
		key := strings.TrimSpace(parts[1])
		if name == "" || key == "" {
			return nil, errors.New(`ADMIN_API_KEYS must be "name:key,name:key"`)
		}
		keys[key] = name
	}
	return keys, nil
}
