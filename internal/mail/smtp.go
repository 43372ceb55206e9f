// Package mail delivers emails over SMTP.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/dtroode/musehabit-server/internal/logger"
	"github.com/dtroode/musehabit-server/internal/model"
)

// StreamHeader selects the Postmark message stream for SMTP submissions.
const StreamHeader = "X-PM-Message-Stream"

// SMTPConfig contains SMTP connection parameters.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// dialer is the part of *gomail.Dialer the sender needs.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var _ model.EmailSender = (*SMTPSender)(nil)

// SMTPSender sends one message per call. It does not retry.
type SMTPSender struct {
	dialer dialer
	logger *logger.Logger
}

// NewSMTPSender creates a sender that dials cfg for every message.
func NewSMTPSender(cfg SMTPConfig, logger *logger.Logger) *SMTPSender {
	return NewSMTPSenderWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), logger)
}

// NewSMTPSenderWithDialer allows injecting a dialer (used in tests).
func NewSMTPSenderWithDialer(d dialer, logger *logger.Logger) *SMTPSender {
	return &SMTPSender{dialer: d, logger: logger}
}

// Send delivers email.
func (s *SMTPSender) Send(ctx context.Context, email model.Email) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("email to %s not sent: %w", email.To, err)
	}
	if email.To == "" {
		return fmt.Errorf("email %q has no recipient", email.Subject)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", email.From)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	if email.Stream != "" {
		m.SetHeader(StreamHeader, email.Stream)
	}
	m.SetBody("text/plain", email.TextBody)
	if email.HTMLBody != "" {
		m.AddAlternative("text/html", email.HTMLBody)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", email.To, err)
	}

	s.logger.Debug("email sent", "to", email.To, "subject", email.Subject, "stream", email.Stream)
	return nil
}
