// Package evaluation classifies wrong predictions and turns verified
// prediction windows into accuracy reports.
package evaluation

import (
	"fmt"
	"strings"

	"github.com/ternarybob/smilewatch/internal/models"
)

// ClassifyError maps a predicted/actual label pair to an error category.
// Matching pairs are not errors and should not reach this function, but the
// unknown fallback keeps the call total.
func ClassifyError(predicted, actual models.SmileLabel) models.ErrorCategory {
	switch {
	case predicted == models.SmileNone && actual != models.SmileNone:
		return models.ErrorFalseNegative
	case predicted != models.SmileNone && actual == models.SmileNone:
		return models.ErrorFalsePositive
	case predicted == models.SmileBuy && actual == models.SmileSell:
		return models.ErrorDirectionError
	case predicted == models.SmileSell && actual == models.SmileBuy:
		return models.ErrorDirectionError
	}
	return models.ErrorUnknown
}

// BuildErrorAnalysis renders a human-readable account of a wrong prediction:
// the label pair, the signal fields the scorer worked from, and the likely
// cause for the category.
func BuildErrorAnalysis(predicted, actual models.SmileLabel, signal *models.StructuredSignal) string {
	lines := []string{
		fmt.Sprintf("predicted: %s, actual: %s", predicted, actual),
		fmt.Sprintf("market cycle: %s", signal.MarketCycle),
		fmt.Sprintf("trend: %s", signal.Trend),
		fmt.Sprintf("risk level: %s", signal.RiskLevel),
		fmt.Sprintf("signal confidence: %s", signal.Confidence),
	}

	switch ClassifyError(predicted, actual) {
	case models.ErrorFalseNegative:
		lines = append(lines, "likely cause: thresholds set too high, or an implied signal went unrecognized")
	case models.ErrorFalsePositive:
		lines = append(lines, "likely cause: over-interpretation, or signal weights set too aggressively")
	case models.ErrorDirectionError:
		lines = append(lines, "likely cause: market cycle misread, or indicator weights need adjustment")
	}

	return strings.Join(lines, "\n")
}
