// Package notify pushes report and event messages to the configured chat
// webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/httpclient"
	"github.com/ternarybob/smilewatch/internal/interfaces"
	"golang.org/x/time/rate"
)

// textMessage is the work-chat webhook payload shape
type textMessage struct {
	MsgType string `json:"msgtype"`
	Text    struct {
		Content string `json:"content"`
	} `json:"text"`
}

// WebhookService implements the NotifyService interface against a chat
// webhook endpoint. An empty URL turns the service into a logged no-op so
// the pipeline runs unchanged without a configured channel.
type WebhookService struct {
	config  *common.WebhookConfig
	logger  arbor.ILogger
	client  *http.Client
	limiter *rate.Limiter
}

// NewWebhookService creates a new webhook notify service
func NewWebhookService(config *common.WebhookConfig, logger arbor.ILogger) (*WebhookService, error) {
	interval := 3 * time.Second
	if config.RateLimit != "" {
		parsed, err := time.ParseDuration(config.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("invalid rate limit '%s': %w", config.RateLimit, err)
		}
		interval = parsed
	}

	timeout := 10 * time.Second
	if config.Timeout != "" {
		parsed, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout '%s': %w", config.Timeout, err)
		}
		timeout = parsed
	}

	if config.URL == "" {
		logger.Info().Msg("No webhook URL configured, notifications disabled")
	}

	return &WebhookService{
		config:  config,
		logger:  logger,
		client:  httpclient.NewDefaultHTTPClient(timeout),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}, nil
}

// Enabled reports whether a webhook URL is configured
func (s *WebhookService) Enabled() bool {
	return s.config.URL != ""
}

// Push sends a text message to the webhook. Disabled services drop the
// message silently; delivery failures are returned for the caller to log.
func (s *WebhookService) Push(ctx context.Context, message string) error {
	if !s.Enabled() {
		s.logger.Debug().Int("length", len(message)).Msg("Notification dropped, no webhook configured")
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	payload := textMessage{MsgType: "text"}
	payload.Text.Content = message
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook push failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(snippet))
	}

	s.logger.Debug().Int("length", len(message)).Msg("Notification pushed")
	return nil
}

var _ interfaces.NotifyService = (*WebhookService)(nil)
