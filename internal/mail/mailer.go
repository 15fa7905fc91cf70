// Package mail sends transactional email over SMTP.
package mail

import (
	"fmt"
	"net/smtp"

	"bazaarwale-backend/internal/config"
)

// Mailer sends a single HTML message. Services depend on this interface so
// tests can capture outgoing mail instead of hitting an SMTP server.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type SMTPMailer struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	fromName  string
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		host:      cfg.Host,
		port:      cfg.Port,
		username:  cfg.User,
		password:  cfg.Pass,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.username == "" || m.fromEmail == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	message := []byte(fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-version: 1.0\r\n"+
		"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
		"\r\n%s\r\n",
		m.fromName, m.fromEmail, to, subject, htmlBody))

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.fromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// NoopMailer drops mail. Used when SMTP credentials are absent so the rest
// of the application keeps working in development.
type NoopMailer struct{}

func (NoopMailer) Send(to, subject, htmlBody string) error { return nil }
