// Package models defines the core records for signal analysis, smile
// prediction and feedback tracking.
package models

import (
	"encoding/gob"
	"time"
)

func init() {
	// Register types for gob encoding (required for BadgerHold storage)
	gob.Register(StructuredSignal{})
	gob.Register(Suggestion{})
	gob.Register(Prediction{})
	gob.Register(ErrorCase{})
	gob.Register(PerformanceSnapshot{})
}

// MarketCycle is the advisor's phase call for the current market
type MarketCycle string

const (
	MarketCycleBuy     MarketCycle = "buy_phase"
	MarketCycleHold    MarketCycle = "hold_phase"
	MarketCycleReduce  MarketCycle = "reduce_phase"
	MarketCycleUnclear MarketCycle = "unclear"
)

// Trend is the advisor's directional judgment
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendChoppy  Trend = "choppy"
	TrendUnclear Trend = "unclear"
)

// RiskLevel is the advisor's stated risk assessment
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnclear RiskLevel = "unclear"
)

// ConfidenceLabel is the author-stated signal strength, distinct from the
// scorer's own numeric confidence
type ConfidenceLabel string

const (
	ConfidenceStrong ConfidenceLabel = "strong"
	ConfidenceMedium ConfidenceLabel = "medium"
	ConfidenceWeak   ConfidenceLabel = "weak"
)

// Sentiment is the overall tone of the post
type Sentiment string

const (
	SentimentOptimistic  Sentiment = "optimistic"
	SentimentPessimistic Sentiment = "pessimistic"
	SentimentNeutral     Sentiment = "neutral"
)

// Strategy tags a suggestion with the investor profile it targets
type Strategy string

const (
	StrategyAggressive   Strategy = "aggressive"
	StrategySteady       Strategy = "steady"
	StrategyConservative Strategy = "conservative"
)

// Well-known indicator names
const (
	IndicatorGoldVolatility  = "gold_volatility"
	IndicatorGoldCopperRatio = "gold_copper_ratio"
)

// Suggestion is one advisor operation suggestion, one per strategy profile.
// Action is free text matched against the keyword table.
type Suggestion struct {
	Strategy Strategy `json:"strategy"`
	Action   string   `json:"action"`
	Position string   `json:"position,omitempty"`
	Timing   string   `json:"timing,omitempty"`
}

// StructuredSignal is one parsed content record as returned by the extractor.
// Enum fields default to their unclear/neutral value; call Normalize before
// scoring so absent or malformed values never reach the scorer as empty
// strings.
type StructuredSignal struct {
	Date             string             `json:"date,omitempty"` // YYYY-MM-DD, empty when not stated
	MarketCycle      MarketCycle        `json:"market_cycle"`
	Trend            Trend              `json:"trend_judgment"`
	RiskLevel        RiskLevel          `json:"risk_level"`
	Confidence       ConfidenceLabel    `json:"confidence"`
	Sentiment        Sentiment          `json:"sentiment"`
	Indicators       map[string]float64 `json:"key_indicators,omitempty"`
	Suggestions      []Suggestion       `json:"operation_suggestions,omitempty"`
	MentionedTargets []string           `json:"mentioned_targets,omitempty"`
	KeyPoints        []string           `json:"key_points,omitempty"`
	TimeWindow       string             `json:"time_window,omitempty"`
	ExpectedSpace    string             `json:"expected_space,omitempty"`
}

// Normalize coerces absent or unknown enum values to their unclear/neutral
// defaults. Normalization never fails; malformed input is a defaulting event,
// not an error.
func (s *StructuredSignal) Normalize() {
	switch s.MarketCycle {
	case MarketCycleBuy, MarketCycleHold, MarketCycleReduce:
	default:
		s.MarketCycle = MarketCycleUnclear
	}

	switch s.Trend {
	case TrendBullish, TrendBearish, TrendChoppy:
	default:
		s.Trend = TrendUnclear
	}

	switch s.RiskLevel {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		s.RiskLevel = RiskUnclear
	}

	switch s.Confidence {
	case ConfidenceStrong, ConfidenceMedium:
	default:
		s.Confidence = ConfidenceWeak
	}

	switch s.Sentiment {
	case SentimentOptimistic, SentimentPessimistic:
	default:
		s.Sentiment = SentimentNeutral
	}

	if s.Indicators == nil {
		s.Indicators = map[string]float64{}
	}
}

// Indicator returns a named numeric indicator and whether it was present
func (s *StructuredSignal) Indicator(name string) (float64, bool) {
	if s.Indicators == nil {
		return 0, false
	}
	v, ok := s.Indicators[name]
	return v, ok
}

// ParsedDate returns the signal date, falling back to the zero time when the
// post did not state one
func (s *StructuredSignal) ParsedDate() time.Time {
	if s.Date == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
