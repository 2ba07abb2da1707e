package models

import (
	"time"
)

// SmileLabel is the categorical outcome the scorer predicts and ground truth
// later confirms or refutes
type SmileLabel string

const (
	SmileBuy  SmileLabel = "buy_smile"
	SmileSell SmileLabel = "sell_smile"
	SmileNone SmileLabel = "no_smile"
)

// ValidSmileLabel reports whether s is one of the three outcome labels
func ValidSmileLabel(s SmileLabel) bool {
	switch s {
	case SmileBuy, SmileSell, SmileNone:
		return true
	}
	return false
}

// ErrorCategory classifies a wrong prediction
type ErrorCategory string

const (
	ErrorFalseNegative  ErrorCategory = "false_negative"
	ErrorFalsePositive  ErrorCategory = "false_positive"
	ErrorDirectionError ErrorCategory = "direction_error"
	ErrorUnknown        ErrorCategory = "unknown"
)

// Prediction is one persisted smile prediction. Records are append-only:
// created once by the scorer, mutated exactly once when feedback arrives,
// never deleted.
type Prediction struct {
	ID        uint64 `badgerhold:"key"`
	ContentID int64  `badgerholdIndex:"ContentID"`

	Label          SmileLabel `json:"label"`
	BuyScore       float64    `json:"buy_score"`
	SellScore      float64    `json:"sell_score"`
	Confidence     float64    `json:"confidence"`
	EstimatedCount float64    `json:"estimated_count"`
	Reasoning      []string   `json:"reasoning,omitempty"` // Audit trail of evidence rationale

	// Snapshot of the originating signal, kept for error analysis and
	// classifier training
	Signal StructuredSignal `json:"signal"`

	PredictedAt time.Time `json:"predicted_at"`

	// Verification fields; nil/zero until feedback arrives, then immutable
	ActualLabel SmileLabel `json:"actual_label,omitempty"`
	ActualCount float64    `json:"actual_count,omitempty"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	IsCorrect   bool       `json:"is_correct"`
}

// Verified reports whether ground truth has been recorded for this prediction
func (p *Prediction) Verified() bool {
	return p.VerifiedAt != nil
}

// ErrorCase records one wrong prediction with its classified category and a
// human-readable analysis. Append-only, at most one per prediction.
type ErrorCase struct {
	ID           uint64        `badgerhold:"key"`
	PredictionID uint64        `badgerholdIndex:"PredictionID"`
	Category     ErrorCategory `json:"category"`
	Analysis     string        `json:"analysis"`
	CreatedAt    time.Time     `json:"created_at"`
}

// PerformanceSnapshot is one immutable rollup of model performance, written
// by the optimizer whenever enough verified samples exist. Forms a
// time series; never updated in place.
type PerformanceSnapshot struct {
	ID            string    `badgerhold:"key"` // UUID
	ModelVersion  string    `json:"model_version"`
	SampleSize    int       `json:"sample_size"`
	CorrectCount  int       `json:"correct_count"`
	Accuracy      float64   `json:"accuracy"`
	AvgConfidence float64   `json:"avg_confidence"`
	EvaluatedAt   time.Time `json:"evaluated_at"`
}
