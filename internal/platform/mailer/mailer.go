// Package mailer implements the notification boundary: composing and
// sending overdue alerts, best-effort, one attempt per message.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/taskboard/taskboard-api/internal/config"
)

// Message is one outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message. Implementations must be safe for
// concurrent use; callers make exactly one attempt per message and
// swallow failures.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers messages over plain SMTP.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender creates a Sender from the mail configuration.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

var _ Sender = (*SMTPSender)(nil)

// Send implements Sender over SMTP. The context deadline is not
// honored below the dial; the dispatcher bounds the overall attempt.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}

// LogSender is the no-transport Sender used when SMTP is not
// configured: it records the notification and succeeds.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With(slog.String("component", "log_sender"))}
}

var _ Sender = (*LogSender)(nil)

// Send implements Sender by logging the message.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("notification (mail transport disabled)",
		"to", msg.To, "subject", msg.Subject)
	return nil
}
