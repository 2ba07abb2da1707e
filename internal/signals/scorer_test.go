package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/models"
)

func testConfig() common.ScoringConfig {
	return common.NewDefaultConfig().Scoring
}

func TestPredict_StrongBuySignal(t *testing.T) {
	scorer := NewScorer(testConfig())

	sig := &models.StructuredSignal{
		MarketCycle: models.MarketCycleBuy,
		Trend:       models.TrendBullish,
		RiskLevel:   models.RiskLow,
		Confidence:  models.ConfidenceStrong,
		Suggestions: []models.Suggestion{
			{Strategy: models.StrategyAggressive, Action: "适当建仓"},
		},
	}

	p := scorer.Predict(sig)

	// cycle 3 + trend 2 + risk 1 + suggestion 1 + confidence bonus 1
	assert.Equal(t, 8.0, p.BuyScore)
	assert.Equal(t, 0.0, p.SellScore)
	assert.Equal(t, models.SmileBuy, p.Label)
	assert.Equal(t, 1.0, p.Confidence)
	assert.Equal(t, 2.0, p.EstimatedCount)
	assert.False(t, p.Verified())
}

func TestPredict_SellSignal(t *testing.T) {
	scorer := NewScorer(testConfig())

	sig := &models.StructuredSignal{
		MarketCycle: models.MarketCycleReduce,
		Trend:       models.TrendBearish,
	}

	p := scorer.Predict(sig)

	assert.Equal(t, 0.0, p.BuyScore)
	assert.Equal(t, 5.0, p.SellScore)
	assert.Equal(t, models.SmileSell, p.Label)
	assert.InDelta(t, 5.0/6.0, p.Confidence, 1e-9)
	assert.Equal(t, 1.0, p.EstimatedCount)
}

func TestPredict_NoSignal(t *testing.T) {
	scorer := NewScorer(testConfig())

	sig := &models.StructuredSignal{
		MarketCycle: models.MarketCycleHold,
		Trend:       models.TrendChoppy,
	}

	p := scorer.Predict(sig)

	assert.Equal(t, 0.0, p.BuyScore)
	assert.Equal(t, 0.0, p.SellScore)
	assert.Equal(t, models.SmileNone, p.Label)
	assert.Equal(t, 0.5, p.Confidence)
	assert.Equal(t, 0.0, p.EstimatedCount)
}

// Equal buy and sell scores always fall to no_smile, even when both sides
// carry heavy evidence. The strict inequality in the decision rule is
// deliberate; a high-magnitude tie is still "no signal".
func TestPredict_TieAlwaysNoSmile(t *testing.T) {
	scorer := NewScorer(testConfig())

	sellSuggestions := make([]models.Suggestion, 6)
	for i := range sellSuggestions {
		sellSuggestions[i] = models.Suggestion{Strategy: models.StrategySteady, Action: "逢高减仓"}
	}

	tests := []struct {
		name string
		sig  *models.StructuredSignal
	}{
		{
			name: "zero versus zero",
			sig:  &models.StructuredSignal{},
		},
		{
			name: "six versus six",
			sig: &models.StructuredSignal{
				MarketCycle: models.MarketCycleBuy, // +3 buy
				Trend:       models.TrendBullish,   // +2 buy
				RiskLevel:   models.RiskLow,        // +1 buy
				Confidence:  models.ConfidenceStrong,
				Suggestions: sellSuggestions, // +6 sell
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scorer.Predict(tt.sig)
			assert.Equal(t, p.BuyScore, p.SellScore)
			assert.Equal(t, models.SmileNone, p.Label)
			assert.Equal(t, 0.5, p.Confidence)
		})
	}
}

func TestPredict_SuggestionsContributeIndependently(t *testing.T) {
	scorer := NewScorer(testConfig())

	sig := &models.StructuredSignal{
		Suggestions: []models.Suggestion{
			{Strategy: models.StrategyAggressive, Action: "适当建仓"},
			{Strategy: models.StrategySteady, Action: "分批加仓"},
			{Strategy: models.StrategyConservative, Action: "小幅建仓"},
		},
	}

	p := scorer.Predict(sig)

	// Three matches at weight 1 each, no deduplication
	assert.Equal(t, 3.0, p.BuyScore)
	assert.Equal(t, 0.0, p.SellScore)
	// Below buy threshold 4, so still no smile
	assert.Equal(t, models.SmileNone, p.Label)
}

func TestPredict_ConfidenceBonusRequiresLeader(t *testing.T) {
	scorer := NewScorer(testConfig())

	// Bullish trend versus high risk: 2 buy, 1 sell, strong confidence boosts
	// the buy side only
	sig := &models.StructuredSignal{
		Trend:      models.TrendBullish,
		RiskLevel:  models.RiskHigh,
		Confidence: models.ConfidenceStrong,
	}
	p := scorer.Predict(sig)
	assert.Equal(t, 3.0, p.BuyScore)
	assert.Equal(t, 1.0, p.SellScore)

	// Tied sides get no boost
	tied := &models.StructuredSignal{
		Trend:       models.TrendBullish, // +2 buy
		Confidence:  models.ConfidenceStrong,
		Suggestions: []models.Suggestion{{Action: "清仓"}, {Action: "减仓"}}, // +2 sell
	}
	p = scorer.Predict(tied)
	assert.Equal(t, 2.0, p.BuyScore)
	assert.Equal(t, 2.0, p.SellScore)
}

func TestPredict_MalformedEnumsDefaultSilently(t *testing.T) {
	scorer := NewScorer(testConfig())

	sig := &models.StructuredSignal{
		MarketCycle: "sideways_phase",
		Trend:       "mooning",
		RiskLevel:   "extreme",
		Confidence:  "absolute",
		Sentiment:   "euphoric",
	}

	p := scorer.Predict(sig)

	assert.Equal(t, models.MarketCycleUnclear, sig.MarketCycle)
	assert.Equal(t, models.TrendUnclear, sig.Trend)
	assert.Equal(t, models.RiskUnclear, sig.RiskLevel)
	assert.Equal(t, models.ConfidenceWeak, sig.Confidence)
	assert.Equal(t, models.SentimentNeutral, sig.Sentiment)
	assert.Equal(t, models.SmileNone, p.Label)
	assert.Equal(t, 0.0, p.BuyScore)
	assert.Equal(t, 0.0, p.SellScore)
}

func TestPredict_ScoresNonNegative(t *testing.T) {
	scorer := NewScorer(testConfig())

	sigs := []*models.StructuredSignal{
		{},
		{MarketCycle: models.MarketCycleReduce, Trend: models.TrendBearish, RiskLevel: models.RiskHigh},
		{MarketCycle: models.MarketCycleBuy, Sentiment: models.SentimentPessimistic},
	}

	for _, sig := range sigs {
		p := scorer.Predict(sig)
		assert.GreaterOrEqual(t, p.BuyScore, 0.0)
		assert.GreaterOrEqual(t, p.SellScore, 0.0)
	}
}

func TestCountFromScore(t *testing.T) {
	tests := []struct {
		score    float64
		expected float64
	}{
		{7.5, 2.0},
		{7.0, 2.0},
		{6.9, 1.5},
		{5.5, 1.5},
		{5.4, 1.0},
		{4.0, 1.0},
		{3.9, 0.5},
		{0, 0.5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, countFromScore(tt.score), "score %.1f", tt.score)
	}
}

func TestAnalyze_EvidenceAndRecommendation(t *testing.T) {
	scorer := NewScorer(testConfig())

	sig := &models.StructuredSignal{
		MarketCycle: models.MarketCycleBuy,
		Trend:       models.TrendBullish,
		RiskLevel:   models.RiskLow,
		Sentiment:   models.SentimentOptimistic,
		Indicators:  map[string]float64{models.IndicatorGoldVolatility: 22.5},
		Suggestions: []models.Suggestion{
			{Strategy: models.StrategyAggressive, Action: "适当建仓"},
			{Strategy: models.StrategyConservative, Action: "观望为主"},
		},
	}

	a := scorer.Analyze(sig)

	// cycle, trend, risk, volatility, suggestion, sentiment
	require.Len(t, a.BuySignals, 6)
	assert.Empty(t, a.SellSignals)
	require.Len(t, a.HoldSignals, 1)

	// 3 + 2 + 1 + 3 (volatility) + 1 + 0.5
	assert.InDelta(t, 10.5, a.SignalStrength, 1e-9)
	assert.Equal(t, models.SmileBuy, a.Prediction.Label)
	assert.Equal(t, "build or add position", a.Recommendation.Action)
	assert.NotEmpty(t, a.Prediction.Reasoning)
}

func TestAnalyze_VolatilityBands(t *testing.T) {
	scorer := NewScorer(testConfig())

	tests := []struct {
		name       string
		volatility float64
		buyWeight  float64
		sellWeight float64
	}{
		{"below safe line", 22.5, 3, 0},
		{"safe zone", 27.0, 2, 0},
		{"dead zone", 31.0, 0, 0},
		{"warning zone", 35.0, 0, 2},
		{"above warning line", 38.0, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := &models.StructuredSignal{
				Indicators: map[string]float64{models.IndicatorGoldVolatility: tt.volatility},
			}
			a := scorer.Analyze(sig)
			assert.Equal(t, tt.buyWeight, totalWeight(a.BuySignals))
			assert.Equal(t, tt.sellWeight, totalWeight(a.SellSignals))
		})
	}
}
