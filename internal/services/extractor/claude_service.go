package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/interfaces"
	"github.com/ternarybob/smilewatch/internal/models"
	"golang.org/x/time/rate"
)

// ClaudeService implements the ExtractorService interface using the Anthropic
// Claude API
type ClaudeService struct {
	config    *common.ClaudeConfig
	logger    arbor.ILogger
	client    anthropic.Client
	limiter   *rate.Limiter
	timeout   time.Duration
	maxTokens int
}

// NewClaudeService creates a new Claude extractor instance
func NewClaudeService(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set ANTHROPIC_API_KEY, SMILEWATCH_CLAUDE_API_KEY, or extractor.claude.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "claude-haiku-3-5-20241022"
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}
	interval, err := time.ParseDuration(config.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit '%s': %w", config.RateLimit, err)
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	service := &ClaudeService{
		config:    config,
		logger:    logger,
		client:    anthropic.NewClient(option.WithAPIKey(config.APIKey)),
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		timeout:   timeout,
		maxTokens: maxTokens,
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Int("max_tokens", maxTokens).
		Msg("Claude extractor initialized")

	return service, nil
}

// ProviderName identifies the backing provider
func (s *ClaudeService) ProviderName() string {
	return "claude"
}

// Extract runs the extraction prompt against the post text and decodes the
// response. An unusable completion degrades to an all-unclear signal rather
// than an error, matching the behavior of an unreadable post.
func (s *ClaudeService) Extract(ctx context.Context, text string) (*models.StructuredSignal, error) {
	if strings.TrimSpace(text) == "" {
		return emptySignal(), nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(text))),
		},
	}
	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}

	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			response.WriteString(textBlock.Text)
		}
	}

	signal, err := decodeSignal(response.String())
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int("response_length", response.Len()).
			Msg("Claude completion was not decodable, falling back to empty signal")
		return emptySignal(), nil
	}

	s.logger.Debug().
		Int("text_length", len(text)).
		Str("market_cycle", string(signal.MarketCycle)).
		Dur("duration", time.Since(startTime)).
		Msg("Claude extraction completed")

	return signal, nil
}

var _ interfaces.ExtractorService = (*ClaudeService)(nil)
