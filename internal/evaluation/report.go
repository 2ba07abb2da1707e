package evaluation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/smilewatch/internal/models"
)

// Accuracy targets the weekly report measures progress against, in percent
const (
	shortTermTarget = 70.0
	midTermTarget   = 80.0
	longTermTarget  = 85.0
)

const divider = "----------------------------------------"

// RenderDailyReport formats a one-day performance summary for the chat
// channel
func RenderDailyReport(date string, report *models.AccuracyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Daily performance report - %s\n\n", date)
	b.WriteString("Predictions:\n")
	fmt.Fprintf(&b, "- total: %d\n", report.Total)
	fmt.Fprintf(&b, "- with feedback: %d\n", report.FeedbackCount)
	fmt.Fprintf(&b, "- correct: %d\n", report.CorrectCount)
	fmt.Fprintf(&b, "- average confidence: %.1f%%\n\n", report.AvgConfidence*100)
	fmt.Fprintf(&b, "Accuracy: %.1f%%\n\n", report.Accuracy)

	switch {
	case report.FeedbackCount == 0:
		b.WriteString("No feedback recorded for this day yet.\n")
	case report.Accuracy >= midTermTarget:
		b.WriteString("Excellent run.\n")
	case report.Accuracy >= 60:
		b.WriteString("Good run.\n")
	default:
		b.WriteString("Needs improvement.\n")
	}

	return b.String()
}

// RenderWeeklyReport formats the seven-day evaluation: overall stats,
// per-label breakdown, an assessment with suggestions, and progress against
// the accuracy targets
func RenderWeeklyReport(startDate, endDate string, report *models.AccuracyReport) string {
	var b strings.Builder

	b.WriteString("Weekly performance report\n")
	fmt.Fprintf(&b, "%s to %s\n\n", startDate, endDate)
	b.WriteString(divider + "\n\n")

	b.WriteString("Overall:\n")
	fmt.Fprintf(&b, "- total predictions: %d\n", report.Total)
	fmt.Fprintf(&b, "- with feedback: %d\n", report.FeedbackCount)
	fmt.Fprintf(&b, "- correct: %d\n", report.CorrectCount)
	fmt.Fprintf(&b, "- feedback rate: %.1f%%\n\n", report.FeedbackRate)
	fmt.Fprintf(&b, "Accuracy: %.1f%%\n", report.Accuracy)
	fmt.Fprintf(&b, "Average confidence: %.1f%%\n\n", report.AvgConfidence*100)

	if len(report.PerLabel) > 0 {
		b.WriteString(divider + "\n\n")
		b.WriteString("By predicted label:\n")

		labels := make([]models.SmileLabel, 0, len(report.PerLabel))
		for label := range report.PerLabel {
			labels = append(labels, label)
		}
		sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

		for _, label := range labels {
			stats := report.PerLabel[label]
			fmt.Fprintf(&b, "\n%s:\n", label)
			fmt.Fprintf(&b, "  predicted: %d\n", stats.Total)
			fmt.Fprintf(&b, "  correct: %d\n", stats.Correct)
			fmt.Fprintf(&b, "  accuracy: %.1f%%\n", stats.Accuracy)
		}
		b.WriteString("\n")
	}

	b.WriteString(divider + "\n\n")
	writeWeeklyAssessment(&b, report)

	b.WriteString("\n" + divider + "\n\n")
	writeTargetProgress(&b, report.Accuracy, report.FeedbackCount)

	return b.String()
}

func writeWeeklyAssessment(b *strings.Builder, report *models.AccuracyReport) {
	switch {
	case report.FeedbackCount == 0:
		b.WriteString("No feedback this week; please record outcomes so the model can improve.\n")
	case report.Accuracy >= midTermTarget:
		b.WriteString("Excellent week, keep it up.\n")
		b.WriteString("Suggestion: keep accumulating data to raise confidence.\n")
	case report.Accuracy >= 60:
		b.WriteString("Good week, with room to improve.\n")
		b.WriteString("Suggestion: review the error cases and refine signal extraction.\n")
	default:
		b.WriteString("This week needs improvement.\n")
		b.WriteString("Suggestions:\n")
		b.WriteString("  1. check extraction quality on the source posts\n")
		b.WriteString("  2. grow the number of verified samples\n")
		b.WriteString("  3. revisit the scoring weights\n")
	}
}

func writeTargetProgress(b *strings.Builder, accuracy float64, feedbackCount int) {
	b.WriteString("Target progress:\n")

	if feedbackCount == 0 {
		fmt.Fprintf(b, "%.1f points from the short-term target (%.0f%%)\n", shortTermTarget, shortTermTarget)
		return
	}

	switch {
	case accuracy >= longTermTarget:
		fmt.Fprintf(b, "Long-term target (%.0f%%+) met\n", longTermTarget)
	case accuracy >= midTermTarget:
		fmt.Fprintf(b, "Mid-term target (%.0f%%) met\n", midTermTarget)
		fmt.Fprintf(b, "%.1f points from the long-term target\n", longTermTarget-accuracy)
	case accuracy >= shortTermTarget:
		fmt.Fprintf(b, "Short-term target (%.0f%%) met\n", shortTermTarget)
		fmt.Fprintf(b, "%.1f points from the mid-term target\n", midTermTarget-accuracy)
	default:
		fmt.Fprintf(b, "%.1f points from the short-term target\n", shortTermTarget-accuracy)
	}
}
