package signals

import (
	"fmt"

	"github.com/ternarybob/smilewatch/internal/models"
)

// Evidence is one weighted contribution toward a direction, derived from one
// field of the structured signal. Ephemeral; only the rationale text survives
// into the prediction's audit trail.
type Evidence struct {
	Category  string          `json:"category"`
	Direction Direction       `json:"direction"`
	Strength  string          `json:"strength"` // strong, medium, weak
	Weight    float64         `json:"weight"`
	Strategy  models.Strategy `json:"strategy,omitempty"`
	Rationale string          `json:"rationale"`
}

// Volatility bands for the gold volatility indicator. Below the safe line is
// strong buy evidence; above the warning line is strong sell evidence.
const (
	volatilitySafeLine  = 25.0
	volatilitySafeUpper = 30.0
	volatilityWarnLower = 32.0
	volatilityWarnLine  = 37.0
)

// extractBuyEvidence collects every field arguing for a buy smile
func (s *Scorer) extractBuyEvidence(sig *models.StructuredSignal) []Evidence {
	var evidence []Evidence

	if sig.MarketCycle == models.MarketCycleBuy {
		evidence = append(evidence, Evidence{
			Category:  "market_cycle",
			Direction: DirectionBuy,
			Strength:  "strong",
			Weight:    s.config.MarketCycleWeight,
			Rationale: "market cycle called as buy phase",
		})
	}

	if sig.Trend == models.TrendBullish {
		evidence = append(evidence, Evidence{
			Category:  "trend",
			Direction: DirectionBuy,
			Strength:  "medium",
			Weight:    s.config.TrendWeight,
			Rationale: "trend judged bullish",
		})
	}

	if sig.RiskLevel == models.RiskLow {
		evidence = append(evidence, Evidence{
			Category:  "risk",
			Direction: DirectionBuy,
			Strength:  "medium",
			Weight:    s.config.RiskLevelWeight,
			Rationale: "risk level stated as low",
		})
	}

	if vol, ok := sig.Indicator(models.IndicatorGoldVolatility); ok {
		if vol < volatilitySafeLine {
			evidence = append(evidence, Evidence{
				Category:  "volatility",
				Direction: DirectionBuy,
				Strength:  "strong",
				Weight:    3,
				Rationale: fmt.Sprintf("gold volatility %.1f below safe line %.0f", vol, volatilitySafeLine),
			})
		} else if vol < volatilitySafeUpper {
			evidence = append(evidence, Evidence{
				Category:  "volatility",
				Direction: DirectionBuy,
				Strength:  "medium",
				Weight:    2,
				Rationale: fmt.Sprintf("gold volatility %.1f inside safe zone", vol),
			})
		}
	}

	for _, sug := range sig.Suggestions {
		if s.keywords.Match(sug.Action) == DirectionBuy {
			evidence = append(evidence, Evidence{
				Category:  "operation",
				Direction: DirectionBuy,
				Strength:  "medium",
				Weight:    s.config.SuggestionWeight,
				Strategy:  sug.Strategy,
				Rationale: fmt.Sprintf("%s strategy: %s", sug.Strategy, sug.Action),
			})
		}
	}

	if sig.Sentiment == models.SentimentOptimistic {
		evidence = append(evidence, Evidence{
			Category:  "sentiment",
			Direction: DirectionBuy,
			Strength:  "weak",
			Weight:    0.5,
			Rationale: "overall sentiment optimistic",
		})
	}

	return evidence
}

// extractSellEvidence collects every field arguing for a sell smile
func (s *Scorer) extractSellEvidence(sig *models.StructuredSignal) []Evidence {
	var evidence []Evidence

	if sig.MarketCycle == models.MarketCycleReduce {
		evidence = append(evidence, Evidence{
			Category:  "market_cycle",
			Direction: DirectionSell,
			Strength:  "strong",
			Weight:    s.config.MarketCycleWeight,
			Rationale: "market cycle called as reduce phase",
		})
	}

	if sig.Trend == models.TrendBearish {
		evidence = append(evidence, Evidence{
			Category:  "trend",
			Direction: DirectionSell,
			Strength:  "medium",
			Weight:    s.config.TrendWeight,
			Rationale: "trend judged bearish",
		})
	}

	if sig.RiskLevel == models.RiskHigh {
		evidence = append(evidence, Evidence{
			Category:  "risk",
			Direction: DirectionSell,
			Strength:  "medium",
			Weight:    s.config.RiskLevelWeight,
			Rationale: "risk level stated as high",
		})
	}

	if vol, ok := sig.Indicator(models.IndicatorGoldVolatility); ok {
		if vol > volatilityWarnLine {
			evidence = append(evidence, Evidence{
				Category:  "volatility",
				Direction: DirectionSell,
				Strength:  "strong",
				Weight:    3,
				Rationale: fmt.Sprintf("gold volatility %.1f above warning line %.0f", vol, volatilityWarnLine),
			})
		} else if vol > volatilityWarnLower {
			evidence = append(evidence, Evidence{
				Category:  "volatility",
				Direction: DirectionSell,
				Strength:  "medium",
				Weight:    2,
				Rationale: fmt.Sprintf("gold volatility %.1f inside warning zone", vol),
			})
		}
	}

	for _, sug := range sig.Suggestions {
		if s.keywords.Match(sug.Action) == DirectionSell {
			evidence = append(evidence, Evidence{
				Category:  "operation",
				Direction: DirectionSell,
				Strength:  "medium",
				Weight:    s.config.SuggestionWeight,
				Strategy:  sug.Strategy,
				Rationale: fmt.Sprintf("%s strategy: %s", sug.Strategy, sug.Action),
			})
		}
	}

	if sig.Sentiment == models.SentimentPessimistic {
		evidence = append(evidence, Evidence{
			Category:  "sentiment",
			Direction: DirectionSell,
			Strength:  "weak",
			Weight:    0.5,
			Rationale: "overall sentiment pessimistic",
		})
	}

	return evidence
}

// extractHoldEvidence collects fields arguing for staying put
func (s *Scorer) extractHoldEvidence(sig *models.StructuredSignal) []Evidence {
	var evidence []Evidence

	if sig.MarketCycle == models.MarketCycleHold {
		evidence = append(evidence, Evidence{
			Category:  "market_cycle",
			Direction: DirectionHold,
			Strength:  "medium",
			Weight:    2,
			Rationale: "market cycle called as hold phase",
		})
	}

	if sig.Trend == models.TrendChoppy {
		evidence = append(evidence, Evidence{
			Category:  "trend",
			Direction: DirectionHold,
			Strength:  "medium",
			Weight:    1,
			Rationale: "trend judged choppy",
		})
	}

	for _, sug := range sig.Suggestions {
		if s.keywords.Match(sug.Action) == DirectionHold {
			evidence = append(evidence, Evidence{
				Category:  "operation",
				Direction: DirectionHold,
				Strength:  "medium",
				Weight:    s.config.SuggestionWeight,
				Strategy:  sug.Strategy,
				Rationale: fmt.Sprintf("%s strategy: %s", sug.Strategy, sug.Action),
			})
		}
	}

	return evidence
}

func totalWeight(evidence []Evidence) float64 {
	var sum float64
	for _, e := range evidence {
		sum += e.Weight
	}
	return sum
}

func rationales(evidence []Evidence) []string {
	out := make([]string, 0, len(evidence))
	for _, e := range evidence {
		out = append(out, e.Rationale)
	}
	return out
}
