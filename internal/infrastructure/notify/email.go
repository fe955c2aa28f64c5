package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// SMTPConfig holds the settings for the outbound mail relay. An empty Host
// disables delivery: messages are logged instead, which keeps local and test
// environments working without a relay.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// SMTPEmailSender delivers email over a plain SMTP relay.
type SMTPEmailSender struct {
	cfg SMTPConfig
	log zerolog.Logger
}

func NewSMTPEmailSender(cfg SMTPConfig, log zerolog.Logger) *SMTPEmailSender {
	if cfg.Host == "" {
		log.Warn().Msg("smtp host not configured, email delivery disabled")
	}
	return &SMTPEmailSender{cfg: cfg, log: log}
}

func (s *SMTPEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	if s.cfg.Host == "" {
		s.log.Info().Str("to", to).Str("subject", subject).Msg("email delivery skipped (no relay configured)")
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.log.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
