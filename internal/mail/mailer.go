// Package mail provides the outbound notifier implementations: a real SMTP
// mailer and a log-only fallback for environments without SMTP credentials.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

type SMTPMailer struct {
	addr     string
	auth     smtp.Auth
	from     string
	username string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		addr:     fmt.Sprintf("%s:%d", host, port),
		auth:     smtp.PlainAuth("", username, password, host),
		from:     from,
		username: username,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := buildPlainTextMessage(m.from, recipient, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{recipient}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", recipient, err)
	}
	return nil
}

func buildPlainTextMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// LogMailer stands in when SMTP is not configured. Messages land in the
// structured log instead of an inbox, which keeps local development and
// tests free of mail infrastructure.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, recipient, subject, body string) error {
	m.logger.InfoContext(ctx, "outbound email (smtp disabled)",
		"recipient", recipient,
		"subject", subject,
		"body", body,
	)
	return nil
}
