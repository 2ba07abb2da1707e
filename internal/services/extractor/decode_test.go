package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/smilewatch/internal/models"
)

const sampleCompletion = "```json\n" + `{
    "date": "2026-08-28",
    "market_cycle": "buy_phase",
    "trend_judgment": "bullish",
    "risk_level": "low",
    "expected_space": "3-5%",
    "confidence": "strong",
    "sentiment": "optimistic",
    "key_indicators": {
        "gold_volatility": 22.5,
        "gold_copper_ratio": "5.1",
        "price_changes": null
    },
    "operation_suggestions": [
        {"strategy": "aggressive", "action": "适当加仓", "position": "30%", "timing": null},
        {"strategy": "conservative", "action": "继续观望"}
    ],
    "mentioned_targets": ["518880", "510300"],
    "time_window": "next 1-2 weeks",
    "key_points": ["volatility back under the safe line"]
}` + "\n```"

func TestDecodeSignal(t *testing.T) {
	signal, err := decodeSignal(sampleCompletion)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-28", signal.Date)
	assert.Equal(t, models.MarketCycleBuy, signal.MarketCycle)
	assert.Equal(t, models.TrendBullish, signal.Trend)
	assert.Equal(t, models.RiskLow, signal.RiskLevel)
	assert.Equal(t, models.ConfidenceStrong, signal.Confidence)
	assert.Equal(t, models.SentimentOptimistic, signal.Sentiment)
	assert.Equal(t, "3-5%", signal.ExpectedSpace)
	assert.Equal(t, "next 1-2 weeks", signal.TimeWindow)
	assert.Equal(t, []string{"518880", "510300"}, signal.MentionedTargets)

	// Numeric strings coerce, nulls drop
	v, ok := signal.Indicator(models.IndicatorGoldVolatility)
	require.True(t, ok)
	assert.Equal(t, 22.5, v)
	r, ok := signal.Indicator(models.IndicatorGoldCopperRatio)
	require.True(t, ok)
	assert.Equal(t, 5.1, r)
	_, ok = signal.Indicator("price_changes")
	assert.False(t, ok)

	require.Len(t, signal.Suggestions, 2)
	assert.Equal(t, models.StrategyAggressive, signal.Suggestions[0].Strategy)
	assert.Equal(t, "适当加仓", signal.Suggestions[0].Action)
	assert.Equal(t, "30%", signal.Suggestions[0].Position)
}

func TestDecodeSignal_UnknownEnumsNormalize(t *testing.T) {
	signal, err := decodeSignal(`{"market_cycle": "sideways", "confidence": "very strong"}`)
	require.NoError(t, err)
	assert.Equal(t, models.MarketCycleUnclear, signal.MarketCycle)
	assert.Equal(t, models.ConfidenceWeak, signal.Confidence)
	assert.Equal(t, models.SentimentNeutral, signal.Sentiment)
	assert.NotNil(t, signal.Indicators)
}

func TestDecodeSignal_ActionlessSuggestionsDropped(t *testing.T) {
	signal, err := decodeSignal(`{"operation_suggestions": [{"strategy": "steady", "action": ""}]}`)
	require.NoError(t, err)
	assert.Empty(t, signal.Suggestions)
}

func TestDecodeSignal_NoJSON(t *testing.T) {
	_, err := decodeSignal("I could not analyze this post.")
	assert.Error(t, err)
}

func TestEmptySignal(t *testing.T) {
	signal := emptySignal()
	assert.Equal(t, models.MarketCycleUnclear, signal.MarketCycle)
	assert.Equal(t, models.TrendUnclear, signal.Trend)
	assert.Equal(t, models.ConfidenceWeak, signal.Confidence)
}
