// Package monitor runs the end-to-end analysis pipeline for one piece of
// advisor content: extract a structured signal, score it, persist the
// prediction, and announce it.
package monitor

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/interfaces"
	"github.com/ternarybob/smilewatch/internal/models"
	"github.com/ternarybob/smilewatch/internal/signals"
)

// Service wires the extractor, scorer, prediction storage and notifier into
// the analysis pipeline
type Service struct {
	extractor interfaces.ExtractorService
	scorer    *signals.Scorer
	storage   interfaces.PredictionStorage
	notifier  interfaces.NotifyService
	logger    arbor.ILogger
}

// NewService creates a new monitor service
func NewService(
	extractor interfaces.ExtractorService,
	scorer *signals.Scorer,
	storage interfaces.PredictionStorage,
	notifier interfaces.NotifyService,
	logger arbor.ILogger,
) *Service {
	return &Service{
		extractor: extractor,
		scorer:    scorer,
		storage:   storage,
		notifier:  notifier,
		logger:    logger,
	}
}

// AnalyzeText runs the full pipeline over one post. The stored prediction is
// returned; a duplicate active prediction for the content ID surfaces as
// interfaces.ErrDuplicatePrediction from the storage layer.
func (s *Service) AnalyzeText(ctx context.Context, contentID int64, text string) (*models.Prediction, error) {
	signal, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("signal extraction failed: %w", err)
	}

	prediction := s.scorer.Predict(signal)

	id, err := s.storage.Create(ctx, contentID, &prediction)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("content_id", contentID).
		Uint64("prediction_id", id).
		Str("label", string(prediction.Label)).
		Float64("confidence", prediction.Confidence).
		Msg("Content analyzed")

	if s.notifier.Enabled() {
		if err := s.notifier.Push(ctx, formatPredictionMessage(contentID, &prediction)); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to push prediction notification")
		}
	}

	return &prediction, nil
}

// formatPredictionMessage renders the chat announcement for a fresh
// prediction
func formatPredictionMessage(contentID int64, p *models.Prediction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New smile prediction (content %d)\n\n", contentID)
	fmt.Fprintf(&b, "Prediction: %s\n", p.Label)
	fmt.Fprintf(&b, "Confidence: %.0f%%\n", p.Confidence*100)
	if p.Label != models.SmileNone {
		fmt.Fprintf(&b, "Estimated count: %.1f\n", p.EstimatedCount)
	}
	fmt.Fprintf(&b, "Scores: buy %.1f / sell %.1f\n", p.BuyScore, p.SellScore)

	if len(p.Reasoning) > 0 {
		b.WriteString("\nReasoning:\n")
		for _, line := range p.Reasoning {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	fmt.Fprintf(&b, "\nRecord the outcome later as %d:<actual_label>:<count>\n", contentID)
	return b.String()
}
