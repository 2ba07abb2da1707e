// Package signals implements the smile prediction engine: weighted evidence
// extraction over a structured signal record and the threshold decision rule.
package signals

import (
	"fmt"
	"time"

	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/models"
)

// Scorer turns a normalized structured signal into a smile prediction using
// hand-tuned category weights. Deterministic; no randomness and no I/O.
type Scorer struct {
	config   common.ScoringConfig
	keywords *KeywordTable
}

// NewScorer creates a scorer with the given weights and the built-in keyword
// table
func NewScorer(config common.ScoringConfig) *Scorer {
	return &Scorer{
		config:   config,
		keywords: DefaultKeywordTable(),
	}
}

// NewScorerWithKeywords creates a scorer with a custom keyword table
func NewScorerWithKeywords(config common.ScoringConfig, keywords *KeywordTable) *Scorer {
	if keywords == nil {
		keywords = DefaultKeywordTable()
	}
	return &Scorer{
		config:   config,
		keywords: keywords,
	}
}

// Analysis is the full signal breakdown for one post: the evidence lists, the
// smile prediction derived from them, and an overall recommendation.
type Analysis struct {
	BuySignals     []Evidence        `json:"buy_signals"`
	SellSignals    []Evidence        `json:"sell_signals"`
	HoldSignals    []Evidence        `json:"hold_signals"`
	Prediction     models.Prediction `json:"prediction"`
	SignalStrength float64           `json:"signal_strength"`
	Recommendation Recommendation    `json:"recommendation"`
}

// Recommendation is the human-facing action suggestion derived from the
// evidence counts
type Recommendation struct {
	Action     string  `json:"action"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// Predict scores the signal and applies the decision rule.
//
// The smile score counts only the five scored categories (market cycle,
// trend, risk level, suggestion matches, stated-confidence bonus).
// Volatility and sentiment evidence feed the evidence lists and the feature
// vector but not the smile score.
//
// Equal buy and sell scores never satisfy either branch's strict inequality,
// so ties always fall to no_smile regardless of magnitude. That holds even
// for a high-magnitude tie and is intentional.
func (s *Scorer) Predict(sig *models.StructuredSignal) models.Prediction {
	sig.Normalize()

	var buyScore, sellScore float64

	switch sig.MarketCycle {
	case models.MarketCycleBuy:
		buyScore += s.config.MarketCycleWeight
	case models.MarketCycleReduce:
		sellScore += s.config.MarketCycleWeight
	}

	switch sig.Trend {
	case models.TrendBullish:
		buyScore += s.config.TrendWeight
	case models.TrendBearish:
		sellScore += s.config.TrendWeight
	}

	switch sig.RiskLevel {
	case models.RiskLow:
		buyScore += s.config.RiskLevelWeight
	case models.RiskHigh:
		sellScore += s.config.RiskLevelWeight
	}

	// Each suggestion contributes independently; no deduplication
	for _, sug := range sig.Suggestions {
		switch s.keywords.Match(sug.Action) {
		case DirectionBuy:
			buyScore += s.config.SuggestionWeight
		case DirectionSell:
			sellScore += s.config.SuggestionWeight
		}
	}

	// Stated-confidence bonus goes to the currently leading side only; a tie
	// boosts neither
	if sig.Confidence == models.ConfidenceStrong {
		if buyScore > sellScore {
			buyScore += s.config.ConfidenceBonus
		} else if sellScore > buyScore {
			sellScore += s.config.ConfidenceBonus
		}
	}

	prediction := models.Prediction{
		BuyScore:    buyScore,
		SellScore:   sellScore,
		Signal:      *sig,
		PredictedAt: time.Now(),
	}

	switch {
	case buyScore > sellScore && buyScore >= s.config.BuyThreshold:
		prediction.Label = models.SmileBuy
		prediction.Confidence = min(buyScore/s.config.StrongSignalThreshold, 1.0)
		prediction.EstimatedCount = countFromScore(buyScore)
		prediction.Reasoning = append(prediction.Reasoning,
			fmt.Sprintf("buy score %.1f meets threshold %.1f", buyScore, s.config.BuyThreshold))
	case sellScore > buyScore && sellScore >= s.config.SellThreshold:
		prediction.Label = models.SmileSell
		prediction.Confidence = min(sellScore/s.config.StrongSignalThreshold, 1.0)
		prediction.EstimatedCount = countFromScore(sellScore)
		prediction.Reasoning = append(prediction.Reasoning,
			fmt.Sprintf("sell score %.1f meets threshold %.1f", sellScore, s.config.SellThreshold))
	default:
		prediction.Label = models.SmileNone
		prediction.Confidence = 0.5
		prediction.EstimatedCount = 0
		prediction.Reasoning = append(prediction.Reasoning,
			fmt.Sprintf("buy score %.1f and sell score %.1f, neither side wins", buyScore, sellScore))
	}

	return prediction
}

// Analyze produces the full evidence breakdown plus the prediction
func (s *Scorer) Analyze(sig *models.StructuredSignal) Analysis {
	sig.Normalize()

	buy := s.extractBuyEvidence(sig)
	sell := s.extractSellEvidence(sig)
	hold := s.extractHoldEvidence(sig)

	prediction := s.Predict(sig)
	prediction.Reasoning = append(rationales(append(append([]Evidence{}, buy...), sell...)), prediction.Reasoning...)

	analysis := Analysis{
		BuySignals:     buy,
		SellSignals:    sell,
		HoldSignals:    hold,
		Prediction:     prediction,
		SignalStrength: max(totalWeight(buy), totalWeight(sell)),
	}
	analysis.Recommendation = s.recommend(analysis)

	return analysis
}

// countFromScore maps the winning score onto the coarse smile-count ladder
func countFromScore(score float64) float64 {
	switch {
	case score >= 7:
		return 2.0
	case score >= 5.5:
		return 1.5
	case score >= 4:
		return 1.0
	default:
		return 0.5
	}
}

func (s *Scorer) recommend(a Analysis) Recommendation {
	buyCount := len(a.BuySignals)
	sellCount := len(a.SellSignals)
	holdCount := len(a.HoldSignals)

	var action, reason string
	switch {
	case buyCount > sellCount && buyCount > holdCount:
		action = "build or add position"
		reason = fmt.Sprintf("%d buy signals detected", buyCount)
	case sellCount > buyCount && sellCount > holdCount:
		action = "reduce or exit position"
		reason = fmt.Sprintf("%d sell signals detected", sellCount)
	default:
		action = "wait and hold"
		reason = fmt.Sprintf("signals unclear (buy %d, sell %d, hold %d)", buyCount, sellCount, holdCount)
	}

	return Recommendation{
		Action:     action,
		Reason:     reason,
		Confidence: a.Prediction.Confidence,
	}
}
