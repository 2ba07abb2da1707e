// Package trainer turns verified predictions into training data and fits the
// optional random-forest classifier once enough labeled samples exist.
package trainer

import (
	"strings"

	"github.com/ternarybob/smilewatch/internal/models"
)

// FeatureCount is the fixed width of the classifier feature vector: one-hot
// market cycle (3), trend (3), risk (3), confidence (3), sentiment (2),
// suggestion direction flags (2), normalized volatility (1).
const FeatureCount = 17

// ExtractFeatures encodes a structured signal as a fixed-order float vector.
// Unknown enum values leave their one-hot block all zeros, so malformed input
// degrades to a weaker sample rather than an error.
func ExtractFeatures(signal *models.StructuredSignal) []float64 {
	features := make([]float64, 0, FeatureCount)

	features = append(features,
		flag(signal.MarketCycle == models.MarketCycleBuy),
		flag(signal.MarketCycle == models.MarketCycleHold),
		flag(signal.MarketCycle == models.MarketCycleReduce),
	)
	features = append(features,
		flag(signal.Trend == models.TrendBullish),
		flag(signal.Trend == models.TrendBearish),
		flag(signal.Trend == models.TrendChoppy),
	)
	features = append(features,
		flag(signal.RiskLevel == models.RiskLow),
		flag(signal.RiskLevel == models.RiskMedium),
		flag(signal.RiskLevel == models.RiskHigh),
	)
	features = append(features,
		flag(signal.Confidence == models.ConfidenceStrong),
		flag(signal.Confidence == models.ConfidenceMedium),
		flag(signal.Confidence == models.ConfidenceWeak),
	)
	features = append(features,
		flag(signal.Sentiment == models.SentimentOptimistic),
		flag(signal.Sentiment == models.SentimentPessimistic),
	)

	hasBuy, hasSell := suggestionFlags(signal.Suggestions)
	features = append(features, flag(hasBuy), flag(hasSell))

	volatility := 0.0
	if v, ok := signal.Indicator(models.IndicatorGoldVolatility); ok {
		volatility = v / 100 // normalize to roughly unit scale
	}
	features = append(features, volatility)

	return features
}

func suggestionFlags(suggestions []models.Suggestion) (hasBuy, hasSell bool) {
	for _, s := range suggestions {
		if strings.Contains(s.Action, "建仓") || strings.Contains(s.Action, "加仓") {
			hasBuy = true
		}
		if strings.Contains(s.Action, "减仓") || strings.Contains(s.Action, "清仓") {
			hasSell = true
		}
	}
	return hasBuy, hasSell
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
