package models

import "time"

// LabelStats is the per-label slice of an accuracy report
type LabelStats struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"` // percent
}

// AccuracyReport summarizes prediction performance over a window. Accuracy
// counts only verified records; AvgConfidence averages over every record in
// the window, verified or not.
type AccuracyReport struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	Total         int     `json:"total"`
	FeedbackCount int     `json:"feedback_count"`
	CorrectCount  int     `json:"correct_count"`
	Accuracy      float64 `json:"accuracy"`       // percent, 0 when nothing verified
	AvgConfidence float64 `json:"avg_confidence"` // fraction 0..1
	FeedbackRate  float64 `json:"feedback_rate"`  // percent of records with feedback

	PerLabel map[SmileLabel]LabelStats `json:"per_label,omitempty"`
}
