package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/interfaces"
	"github.com/ternarybob/smilewatch/internal/models"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GeminiService implements the ExtractorService interface using the Google
// Gemini API
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewGeminiService creates a new Gemini extractor instance
func NewGeminiService(config *common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Google API key is required (set GEMINI_API_KEY or extractor.gemini.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "gemini-3-flash-preview"
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}
	interval, err := time.ParseDuration(config.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit '%s': %w", config.RateLimit, err)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config:  config,
		logger:  logger,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		timeout: timeout,
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Msg("Gemini extractor initialized")

	return service, nil
}

// ProviderName identifies the backing provider
func (s *GeminiService) ProviderName() string {
	return "gemini"
}

// Extract runs the extraction prompt against the post text and decodes the
// response. An unusable completion degrades to an all-unclear signal rather
// than an error.
func (s *GeminiService) Extract(ctx context.Context, text string) (*models.StructuredSignal, error) {
	if strings.TrimSpace(text) == "" {
		return emptySignal(), nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(s.config.Temperature),
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}
	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText(buildPrompt(text))},
		},
	}

	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	var response strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	signal, err := decodeSignal(response.String())
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int("response_length", response.Len()).
			Msg("Gemini completion was not decodable, falling back to empty signal")
		return emptySignal(), nil
	}

	s.logger.Debug().
		Int("text_length", len(text)).
		Str("market_cycle", string(signal.MarketCycle)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini extraction completed")

	return signal, nil
}

var _ interfaces.ExtractorService = (*GeminiService)(nil)
