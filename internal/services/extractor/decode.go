package extractor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ternarybob/smilewatch/internal/models"
)

// signalPayload mirrors the response schema with loose types. Indicator
// values arrive as numbers, numeric strings or null depending on the model's
// mood, so they are decoded permissively and coerced afterwards.
type signalPayload struct {
	Date          string                 `json:"date"`
	MarketCycle   string                 `json:"market_cycle"`
	Trend         string                 `json:"trend_judgment"`
	RiskLevel     string                 `json:"risk_level"`
	ExpectedSpace string                 `json:"expected_space"`
	Confidence    string                 `json:"confidence"`
	Sentiment     string                 `json:"sentiment"`
	Indicators    map[string]interface{} `json:"key_indicators"`
	Suggestions   []suggestionPayload    `json:"operation_suggestions"`
	Targets       []string               `json:"mentioned_targets"`
	TimeWindow    string                 `json:"time_window"`
	KeyPoints     []string               `json:"key_points"`
}

type suggestionPayload struct {
	Strategy string `json:"strategy"`
	Action   string `json:"action"`
	Position string `json:"position"`
	Timing   string `json:"timing"`
}

// decodeSignal parses an LLM completion into a normalized StructuredSignal.
// The raw text may wrap the JSON in markdown fences or prose; everything
// outside the outermost braces is discarded.
func decodeSignal(raw string) (*models.StructuredSignal, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var payload signalPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode signal payload: %w", err)
	}

	signal := &models.StructuredSignal{
		Date:             payload.Date,
		MarketCycle:      models.MarketCycle(payload.MarketCycle),
		Trend:            models.Trend(payload.Trend),
		RiskLevel:        models.RiskLevel(payload.RiskLevel),
		Confidence:       models.ConfidenceLabel(payload.Confidence),
		Sentiment:        models.Sentiment(payload.Sentiment),
		Indicators:       coerceIndicators(payload.Indicators),
		MentionedTargets: payload.Targets,
		KeyPoints:        payload.KeyPoints,
		TimeWindow:       payload.TimeWindow,
		ExpectedSpace:    payload.ExpectedSpace,
	}
	for _, s := range payload.Suggestions {
		if s.Action == "" {
			continue
		}
		signal.Suggestions = append(signal.Suggestions, models.Suggestion{
			Strategy: models.Strategy(s.Strategy),
			Action:   s.Action,
			Position: s.Position,
			Timing:   s.Timing,
		})
	}

	signal.Normalize()
	return signal, nil
}

// emptySignal is the fallback when the model returns something unusable:
// everything unclear, nothing actionable, scores to no_smile downstream
func emptySignal() *models.StructuredSignal {
	signal := &models.StructuredSignal{}
	signal.Normalize()
	return signal
}

func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in completion")
	}
	return raw[start : end+1], nil
}

func coerceIndicators(values map[string]interface{}) map[string]float64 {
	indicators := make(map[string]float64, len(values))
	for name, value := range values {
		switch v := value.(type) {
		case float64:
			indicators[name] = v
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				indicators[name] = f
			}
		}
	}
	return indicators
}
