package email

import (
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Sender delivers a single email. Send reports success or failure only;
// the reminder engine translates failures into state compensation.
type Sender interface {
	Send(to, subject, htmlBody string) bool
}

// SMTPSender sends through a configured SMTP relay.
type SMTPSender struct {
	config *Config
	dialer *gomail.Dialer
}

func NewSMTPSender(config *Config) (*SMTPSender, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword)
	return &SMTPSender{config: config, dialer: dialer}, nil
}

func (s *SMTPSender) Send(to, subject, htmlBody string) bool {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		slog.Error("failed to send email", "to", to, "subject", subject, "error", err)
		return false
	}
	return true
}

// NopSender stands in when SMTP is unconfigured. Every send fails, so
// reminders stay PENDING until delivery is possible.
type NopSender struct{}

func (NopSender) Send(to, subject, _ string) bool {
	slog.Warn("email delivery skipped, SMTP not configured", "to", to, "subject", subject)
	return false
}
