package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SMSConfig points at the SMS provider's message endpoint. An empty
// EndpointURL disables delivery, logging messages instead.
type SMSConfig struct {
	EndpointURL string
	APIKey      string
	From        string
}

// HTTPSMSSender posts messages to an HTTP SMS gateway.
type HTTPSMSSender struct {
	cfg    SMSConfig
	client *http.Client
	log    zerolog.Logger
}

func NewHTTPSMSSender(cfg SMSConfig, log zerolog.Logger) *HTTPSMSSender {
	if cfg.EndpointURL == "" {
		log.Warn().Msg("sms endpoint not configured, sms delivery disabled")
	}
	return &HTTPSMSSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

func (s *HTTPSMSSender) SendSMS(ctx context.Context, to, body string) error {
	if s.cfg.EndpointURL == "" {
		s.log.Info().Str("to", to).Msg("sms delivery skipped (no provider configured)")
		return nil
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.From)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.EndpointURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider returned %d", resp.StatusCode)
	}

	s.log.Info().Str("to", to).Msg("sms sent")
	return nil
}
