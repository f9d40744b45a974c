// Package mailer delivers transactional email over SMTP, or to the log when
// outbound mail is disabled.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/target/blogger-api/config"
	"github.com/target/blogger-api/internal/ports"
)

// SendFunc delivers one raw message. It must give up once ctx is done.
type SendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// ErrNoRecipient is returned when a message has no To address.
var ErrNoRecipient = errors.New("mailer: recipient is required")

//nolint:gochecknoglobals // parsed once at init
var (
	resetTmpl = template.Must(template.New("reset").Parse(`Hi {{.Name}},

We received a request to reset the password for your account.
Use the link below to choose a new password. The link expires in one hour.

{{.ResetURL}}

If you did not request a reset you can ignore this email.
`))
	welcomeTmpl = template.Must(template.New("welcome").Parse(`Hi {{.Name}},

Welcome aboard. Your account is ready and you can sign in any time.
`))
)

// SMTPMailerOptions groups dependencies for NewSMTPMailer.
type SMTPMailerOptions struct {
	Config config.MailConfig
	Send   SendFunc // defaults to SendMail
	Now    func() time.Time
	Logger *slog.Logger
}

// SMTPMailer implements ports.Mailer using plain SMTP with optional PLAIN auth.
type SMTPMailer struct {
	cfg    config.MailConfig
	send   SendFunc
	now    func() time.Time
	logger *slog.Logger
}

var _ ports.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer constructs an SMTPMailer.
func NewSMTPMailer(opts SMTPMailerOptions) *SMTPMailer {
	send := opts.Send
	if send == nil {
		send = SendMail
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPMailer{
		cfg:    opts.Config,
		send:   send,
		now:    now,
		logger: logger.With("component", "smtp_mailer"),
	}
}

// SendPasswordReset sends the reset link to msg.To.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, msg ports.PasswordResetEmail) error {
	body, err := render(resetTmpl, msg)
	if err != nil {
		return err
	}
	return m.deliver(ctx, msg.To, "Reset your password", body)
}

// SendWelcome greets a newly registered account.
func (m *SMTPMailer) SendWelcome(ctx context.Context, msg ports.WelcomeEmail) error {
	body, err := render(welcomeTmpl, msg)
	if err != nil {
		return err
	}
	return m.deliver(ctx, msg.To, "Welcome", body)
}

func (m *SMTPMailer) deliver(ctx context.Context, to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := m.cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultMailTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	raw := buildMessage(messageParams{
		From:    m.cfg.From,
		To:      to,
		Subject: subject,
		Body:    body,
		Date:    m.now(),
	})

	start := m.now()
	if err := m.send(ctx, addr, auth, m.cfg.From, []string{to}, raw); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	m.logger.DebugContext(ctx, "email sent", "subject", subject, "duration", m.now().Sub(start))
	return nil
}

// SendMail is smtp.SendMail bounded by ctx: the dial honours cancellation and
// every later read and write fails once the context deadline passes or ctx is canceled.
func SendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if dl, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(dl); err != nil {
			_ = conn.Close()
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp: server doesn't support AUTH")
		}
		if err := c.Auth(a); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

type messageParams struct {
	From    string
	To      string
	Subject string
	Body    string
	Date    time.Time
}

func buildMessage(p messageParams) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", p.From)
	fmt.Fprintf(&b, "To: %s\r\n", p.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", p.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", p.Date.UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", uuid.NewString(), domainOf(p.From))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(p.Body, "\n", "\r\n"))
	return b.Bytes()
}

func domainOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return b.String(), nil
}
