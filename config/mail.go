package config

import (
	"strings"
	"time"
)

// DefaultMailTimeout bounds a single SMTP delivery.
const DefaultMailTimeout = 30 * time.Second

// MailConfig controls outbound email. When disabled, messages are written to the log instead.
type MailConfig struct {
	Enabled  bool          `env:"ENABLED"  envDefault:"false"`
	Host     string        `env:"HOST"     envDefault:"localhost"`
	Port     int           `env:"PORT"     envDefault:"587"`
	User     string        `env:"USER"`
	Password string        `env:"PASSWORD"`
	From     string        `env:"FROM"     envDefault:"noreply@blogger.app"`
	Timeout  time.Duration `env:"TIMEOUT"  envDefault:"30s"`
}

// Sanitize applies guardrails to mail configuration values.
func (m *MailConfig) Sanitize() {
	m.From = strings.TrimSpace(m.From)
	if m.From == "" {
		m.From = "noreply@blogger.app"
	}
	if m.Port <= 0 {
		m.Port = 587
	}
	if m.Timeout <= 0 {
		m.Timeout = DefaultMailTimeout
	}
}
