package trainer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/models"
)

func TestExtractFeatures_Width(t *testing.T) {
	vector := ExtractFeatures(&models.StructuredSignal{})
	assert.Len(t, vector, FeatureCount)
}

func TestExtractFeatures_Slots(t *testing.T) {
	signal := &models.StructuredSignal{
		MarketCycle: models.MarketCycleBuy,
		Trend:       models.TrendBullish,
		RiskLevel:   models.RiskLow,
		Confidence:  models.ConfidenceStrong,
		Sentiment:   models.SentimentOptimistic,
		Suggestions: []models.Suggestion{
			{Action: "适当建仓"},
			{Action: "逢高减仓"},
		},
		Indicators: map[string]float64{
			models.IndicatorGoldVolatility: 28.5,
		},
	}

	expected := []float64{
		1, 0, 0, // cycle
		1, 0, 0, // trend
		1, 0, 0, // risk
		1, 0, 0, // confidence
		1, 0, // sentiment
		1, 1, // suggestion directions
		0.285, // volatility / 100
	}
	assert.Equal(t, expected, ExtractFeatures(signal))
}

func TestExtractFeatures_UnclearLeavesBlocksZero(t *testing.T) {
	signal := &models.StructuredSignal{
		MarketCycle: models.MarketCycleUnclear,
		Trend:       models.TrendUnclear,
		RiskLevel:   models.RiskUnclear,
		Confidence:  models.ConfidenceWeak,
		Sentiment:   models.SentimentNeutral,
	}

	vector := ExtractFeatures(signal)
	require.Len(t, vector, FeatureCount)
	for i, v := range vector {
		if i == 11 { // weak confidence slot is a real value
			assert.Equal(t, 1.0, v)
			continue
		}
		assert.Zero(t, v, "slot %d", i)
	}
}

func labeledRecord(label models.SmileLabel, signal models.StructuredSignal) *models.Prediction {
	now := time.Now()
	return &models.Prediction{
		Label:       label,
		ActualLabel: label,
		Signal:      signal,
		VerifiedAt:  &now,
		IsCorrect:   true,
	}
}

func TestMaybeRetrain_BelowGate(t *testing.T) {
	config := common.NewDefaultConfig().Optimizer
	tr := NewTrainer(arbor.NewLogger(), config)

	records := make([]*models.Prediction, 0, config.RetrainMinSamples-1)
	for i := 0; i < config.RetrainMinSamples-1; i++ {
		records = append(records, labeledRecord(models.SmileBuy, models.StructuredSignal{
			MarketCycle: models.MarketCycleBuy,
		}))
	}
	// Unverified records never count toward the gate
	records = append(records, &models.Prediction{Label: models.SmileBuy})

	result, err := tr.MaybeRetrain(records)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestMaybeRetrain_FitsAtGate(t *testing.T) {
	config := common.NewDefaultConfig().Optimizer
	tr := NewTrainer(arbor.NewLogger(), config)

	buySignal := models.StructuredSignal{
		MarketCycle: models.MarketCycleBuy,
		Trend:       models.TrendBullish,
		RiskLevel:   models.RiskLow,
		Confidence:  models.ConfidenceStrong,
		Sentiment:   models.SentimentOptimistic,
	}
	sellSignal := models.StructuredSignal{
		MarketCycle: models.MarketCycleReduce,
		Trend:       models.TrendBearish,
		RiskLevel:   models.RiskHigh,
		Confidence:  models.ConfidenceStrong,
		Sentiment:   models.SentimentPessimistic,
	}

	records := make([]*models.Prediction, 0, config.RetrainMinSamples)
	for i := 0; i < config.RetrainMinSamples; i++ {
		if i%2 == 0 {
			records = append(records, labeledRecord(models.SmileBuy, buySignal))
		} else {
			records = append(records, labeledRecord(models.SmileSell, sellSignal))
		}
	}

	result, err := tr.MaybeRetrain(records)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotNil(t, result.Model)
	assert.Equal(t, config.RetrainMinSamples, result.SampleSize)
	assert.GreaterOrEqual(t, result.TestAccuracy, 0.0)
	assert.LessOrEqual(t, result.TestAccuracy, 1.0)
}
