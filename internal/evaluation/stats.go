package evaluation

import (
	"time"

	"github.com/ternarybob/smilewatch/internal/models"
)

// ComputeAccuracy rolls the given predictions up into an AccuracyReport for
// the [from, to] window. Accuracy and per-label stats count verified records
// only; average confidence deliberately spans every record in the window so
// that a flood of unverified low-confidence calls still drags the number
// down.
func ComputeAccuracy(records []*models.Prediction, from, to time.Time) *models.AccuracyReport {
	report := &models.AccuracyReport{
		From:     from,
		To:       to,
		Total:    len(records),
		PerLabel: make(map[models.SmileLabel]models.LabelStats),
	}

	confidenceSum := 0.0
	for _, r := range records {
		confidenceSum += r.Confidence
		if !r.Verified() {
			continue
		}

		report.FeedbackCount++
		stats := report.PerLabel[r.Label]
		stats.Total++
		if r.IsCorrect {
			report.CorrectCount++
			stats.Correct++
		}
		report.PerLabel[r.Label] = stats
	}

	if report.Total > 0 {
		report.AvgConfidence = confidenceSum / float64(report.Total)
		report.FeedbackRate = float64(report.FeedbackCount) / float64(report.Total) * 100
	}
	if report.FeedbackCount > 0 {
		report.Accuracy = float64(report.CorrectCount) / float64(report.FeedbackCount) * 100
	}

	for label, stats := range report.PerLabel {
		if stats.Total > 0 {
			stats.Accuracy = float64(stats.Correct) / float64(stats.Total) * 100
			report.PerLabel[label] = stats
		}
	}

	return report
}
