// Package feedback collects ground truth for stored predictions, keeps the
// performance ledger, and produces the daily and weekly reports.
package feedback

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/evaluation"
	"github.com/ternarybob/smilewatch/internal/interfaces"
	"github.com/ternarybob/smilewatch/internal/models"
	"github.com/ternarybob/smilewatch/internal/trainer"
)

const pendingListLimit = 10

// Service implements feedback collection and performance evaluation
type Service struct {
	predictions interfaces.PredictionStorage
	errorCases  interfaces.ErrorCaseStorage
	snapshots   interfaces.SnapshotStorage
	notifier    interfaces.NotifyService
	trainer     *trainer.Trainer
	config      *common.Config
	logger      arbor.ILogger

	mu        sync.Mutex
	lastModel *trainer.Result
}

// NewService creates a new feedback service
func NewService(
	storage interfaces.StorageManager,
	notifier interfaces.NotifyService,
	modelTrainer *trainer.Trainer,
	config *common.Config,
	logger arbor.ILogger,
) *Service {
	return &Service{
		predictions: storage.PredictionStorage(),
		errorCases:  storage.ErrorCaseStorage(),
		snapshots:   storage.SnapshotStorage(),
		notifier:    notifier,
		trainer:     modelTrainer,
		config:      config,
		logger:      logger,
	}
}

// PendingList fetches the unverified predictions inside the lookback window
// and pushes the formatted list with usage instructions
func (s *Service) PendingList(ctx context.Context) ([]*models.Prediction, error) {
	since := time.Now().Add(-s.config.Prediction.LookbackWindow())
	pending, err := s.predictions.ListPending(ctx, since)
	if err != nil {
		return nil, err
	}

	message := formatPendingMessage(pending)
	if err := s.notifier.Push(ctx, message); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to push pending list")
	}

	return pending, nil
}

// SubmitBatch records a batch of feedback entries. Wrong predictions are
// classified and stored as error cases; afterwards a result summary is pushed
// and the optimizer runs.
func (s *Service) SubmitBatch(ctx context.Context, entries []BatchEntry) (*BatchResult, error) {
	result := &BatchResult{}

	for _, entry := range entries {
		verified, err := s.predictions.Verify(ctx, entry.ContentID, entry.Label, entry.Count)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int64("content_id", entry.ContentID).
				Msg("Failed to record feedback")
			result.Fail++
			continue
		}
		result.Success++

		if !verified.IsCorrect {
			s.recordErrorCase(ctx, verified)
		}
	}
	result.Total = result.Success + result.Fail

	summary := fmt.Sprintf(
		"Batch feedback complete\n\nsucceeded: %d\nfailed: %d\n\nThe model will be tuned from this feedback.",
		result.Success, result.Fail)
	if err := s.notifier.Push(ctx, summary); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to push feedback summary")
	}

	if result.Success > 0 {
		if err := s.Optimize(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Optimization after feedback failed")
		}
	}

	return result, nil
}

// Optimize evaluates the verified history: writes a performance snapshot once
// enough samples exist, logs error patterns, and retrains the classifier past
// the retrain gate
func (s *Service) Optimize(ctx context.Context) error {
	verified, err := s.predictions.ListVerified(ctx)
	if err != nil {
		return err
	}

	if len(verified) < s.config.Optimizer.SnapshotMinSamples {
		s.logger.Info().
			Int("samples", len(verified)).
			Int("required", s.config.Optimizer.SnapshotMinSamples).
			Msg("Not enough verified samples to evaluate")
		return nil
	}

	correct := 0
	confidenceSum := 0.0
	for _, p := range verified {
		if p.IsCorrect {
			correct++
		}
		confidenceSum += p.Confidence
	}
	accuracy := float64(correct) / float64(len(verified)) * 100
	avgConfidence := confidenceSum / float64(len(verified))

	s.logger.Info().
		Float64("accuracy", accuracy).
		Int("correct", correct).
		Int("total", len(verified)).
		Float64("avg_confidence", avgConfidence).
		Msg("Model performance evaluated")

	snapshot := &models.PerformanceSnapshot{
		ModelVersion:  uuid.New().String(),
		SampleSize:    len(verified),
		CorrectCount:  correct,
		Accuracy:      accuracy,
		AvgConfidence: avgConfidence,
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return err
	}

	s.logErrorPatterns(ctx)

	result, err := s.trainer.MaybeRetrain(verified)
	if err != nil {
		return err
	}
	if result != nil {
		s.mu.Lock()
		s.lastModel = result
		s.mu.Unlock()
	}

	return nil
}

// Model returns the most recently trained classifier, or nil before the first
// retrain
func (s *Service) Model() *trainer.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastModel
}

// DailyReport renders the report for one day (default yesterday) and pushes
// it to the chat channel
func (s *Service) DailyReport(ctx context.Context, date string) (string, error) {
	day, err := resolveDate(date)
	if err != nil {
		return "", err
	}

	from := day
	to := day.Add(24*time.Hour - time.Nanosecond)
	records, err := s.predictions.ListInRange(ctx, from, to)
	if err != nil {
		return "", err
	}

	report := evaluation.ComputeAccuracy(records, from, to)
	text := evaluation.RenderDailyReport(day.Format("2006-01-02"), report)

	if err := s.notifier.Push(ctx, text); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to push daily report")
	}
	s.logger.Info().Str("date", day.Format("2006-01-02")).Msg("Daily report generated")

	return text, nil
}

// WeeklyReport renders the report for the seven days ending endDate (default
// yesterday) and pushes it to the chat channel
func (s *Service) WeeklyReport(ctx context.Context, endDate string) (string, error) {
	end, err := resolveDate(endDate)
	if err != nil {
		return "", err
	}
	start := end.AddDate(0, 0, -6)

	from := start
	to := end.Add(24*time.Hour - time.Nanosecond)
	records, err := s.predictions.ListInRange(ctx, from, to)
	if err != nil {
		return "", err
	}

	report := evaluation.ComputeAccuracy(records, from, to)
	text := evaluation.RenderWeeklyReport(start.Format("2006-01-02"), end.Format("2006-01-02"), report)

	if err := s.notifier.Push(ctx, text); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to push weekly report")
	}
	s.logger.Info().
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Msg("Weekly report generated")

	return text, nil
}

func (s *Service) recordErrorCase(ctx context.Context, p *models.Prediction) {
	category := evaluation.ClassifyError(p.Label, p.ActualLabel)
	analysis := evaluation.BuildErrorAnalysis(p.Label, p.ActualLabel, &p.Signal)

	errorCase := &models.ErrorCase{
		PredictionID: p.ID,
		Category:     category,
		Analysis:     analysis,
	}
	if err := s.errorCases.Save(ctx, errorCase); err != nil {
		s.logger.Error().Err(err).Uint64("prediction_id", p.ID).Msg("Failed to save error case")
		return
	}
	s.logger.Info().
		Uint64("prediction_id", p.ID).
		Str("category", string(category)).
		Msg("Error case recorded")
}

func (s *Service) logErrorPatterns(ctx context.Context) {
	counts, err := s.errorCases.CountByCategory(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to count error cases")
		return
	}
	for category, count := range counts {
		s.logger.Info().
			Str("category", string(category)).
			Int("count", count).
			Msg("Error pattern")
	}
}

// resolveDate parses a YYYY-MM-DD day, defaulting to yesterday, truncated to
// midnight local time
func resolveDate(date string) (time.Time, error) {
	if date == "" {
		now := time.Now()
		yesterday := now.AddDate(0, 0, -1)
		return time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date '%s': %w", date, err)
	}
	return day, nil
}

func formatPendingMessage(pending []*models.Prediction) string {
	if len(pending) == 0 {
		return "No predictions are waiting for feedback."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Predictions waiting for feedback (%d)\n\n", len(pending))

	shown := pending
	if len(shown) > pendingListLimit {
		shown = shown[:pendingListLimit]
	}
	for i, p := range shown {
		fmt.Fprintf(&b, "%d. content %d | %s | predicted: %s\n",
			i+1, p.ContentID, p.PredictedAt.Format("2006-01-02"), p.Label)
	}
	if len(pending) > pendingListLimit {
		fmt.Fprintf(&b, "\n...and %d more\n", len(pending)-pendingListLimit)
	}

	b.WriteString("\nReply with one entry per line: content_id:actual_label:count\n")
	b.WriteString("Example: 1001:buy_smile:2\n")
	return b.String()
}
