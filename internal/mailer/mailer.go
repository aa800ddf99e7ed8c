package mailer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hireloop/hireloop/pkg/config"
	"gopkg.in/gomail.v2"
)

// Mailer delivers a single HTML email. Implementations must be safe for
// concurrent use; test doubles record calls instead of dialing out.
type Mailer interface {
	SendEmail(to, subject, html string) error
}

// SMTPMailer sends mail through a gomail SMTP dialer.
type SMTPMailer struct {
	cfg    *config.SMTPConfig
	logger *slog.Logger
}

func NewSMTPMailer(cfg *config.SMTPConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) SendEmail(to, subject, html string) error {
	if m.cfg.Host == "" || m.cfg.From == "" {
		m.logger.Warn("smtp config missing, skip email", "to", to, "subject", subject)
		return nil
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info("email sent", "to", to, "subject", subject)
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)
