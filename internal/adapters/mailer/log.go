package mailer

import (
	"context"
	"log/slog"

	"github.com/target/blogger-api/config"
	"github.com/target/blogger-api/internal/ports"
)

// LogMailer writes messages to the log instead of sending them. Used when
// SMTP is disabled, typically in development.
type LogMailer struct {
	logger *slog.Logger
}

var _ ports.Mailer = (*LogMailer)(nil)

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With("component", "log_mailer")}
}

// SendPasswordReset logs the reset link.
func (m *LogMailer) SendPasswordReset(ctx context.Context, msg ports.PasswordResetEmail) error {
	m.logger.InfoContext(ctx, "password reset email", "to", msg.To, "reset_url", msg.ResetURL)
	return nil
}

// SendWelcome logs the greeting.
func (m *LogMailer) SendWelcome(ctx context.Context, msg ports.WelcomeEmail) error {
	m.logger.InfoContext(ctx, "welcome email", "to", msg.To)
	return nil
}

// New picks the SMTP mailer when cfg.Enabled, otherwise the log mailer.
func New(cfg config.MailConfig, logger *slog.Logger) ports.Mailer {
	if cfg.Enabled {
		return NewSMTPMailer(SMTPMailerOptions{Config: cfg, Logger: logger})
	}
	return NewLogMailer(logger)
}
