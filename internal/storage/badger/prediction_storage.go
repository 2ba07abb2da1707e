package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/interfaces"
	"github.com/ternarybob/smilewatch/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// PredictionStorage implements the PredictionStorage interface for Badger
type PredictionStorage struct {
	db       *BadgerDB
	logger   arbor.ILogger
	lookback time.Duration
}

// NewPredictionStorage creates a new PredictionStorage instance. The lookback
// window bounds the duplicate check in Create.
func NewPredictionStorage(db *BadgerDB, logger arbor.ILogger, lookback time.Duration) interfaces.PredictionStorage {
	return &PredictionStorage{
		db:       db,
		logger:   logger,
		lookback: lookback,
	}
}

func (s *PredictionStorage) Create(ctx context.Context, contentID int64, prediction *models.Prediction) (uint64, error) {
	cutoff := time.Now().Add(-s.lookback)

	existing, err := s.findByContent(contentID)
	if err != nil {
		return 0, err
	}
	for _, p := range existing {
		if !p.Verified() && p.PredictedAt.After(cutoff) {
			return 0, fmt.Errorf("content %d: %w", contentID, interfaces.ErrDuplicatePrediction)
		}
	}

	prediction.ContentID = contentID
	if prediction.PredictedAt.IsZero() {
		prediction.PredictedAt = time.Now()
	}

	if err := s.db.Store().Insert(badgerhold.NextSequence(), prediction); err != nil {
		return 0, fmt.Errorf("failed to save prediction: %w", err)
	}

	s.logger.Debug().
		Int64("content_id", contentID).
		Str("label", string(prediction.Label)).
		Msg("Prediction stored")

	return prediction.ID, nil
}

func (s *PredictionStorage) Verify(ctx context.Context, contentID int64, actual models.SmileLabel, actualCount float64) (*models.Prediction, error) {
	existing, err := s.findByContent(contentID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("content %d: %w", contentID, interfaces.ErrPredictionNotFound)
	}

	// Most recent unverified record wins; if every record for the content is
	// already verified the feedback is a repeat
	var target *models.Prediction
	for _, p := range existing {
		if p.Verified() {
			continue
		}
		if target == nil || p.PredictedAt.After(target.PredictedAt) {
			target = p
		}
	}
	if target == nil {
		return nil, fmt.Errorf("content %d: %w", contentID, interfaces.ErrAlreadyVerified)
	}

	now := time.Now()
	target.ActualLabel = actual
	target.ActualCount = actualCount
	target.VerifiedAt = &now
	target.IsCorrect = target.Label == actual

	if err := s.db.Store().Update(target.ID, target); err != nil {
		return nil, fmt.Errorf("failed to update prediction %d: %w", target.ID, err)
	}

	s.logger.Debug().
		Int64("content_id", contentID).
		Str("predicted", string(target.Label)).
		Str("actual", string(actual)).
		Bool("correct", target.IsCorrect).
		Msg("Prediction verified")

	return target, nil
}

func (s *PredictionStorage) ListPending(ctx context.Context, since time.Time) ([]*models.Prediction, error) {
	var records []models.Prediction
	query := badgerhold.Where("PredictedAt").Ge(since)
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list pending predictions: %w", err)
	}

	result := make([]*models.Prediction, 0, len(records))
	for i := range records {
		if !records[i].Verified() {
			result = append(result, &records[i])
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PredictedAt.After(result[j].PredictedAt)
	})
	return result, nil
}

func (s *PredictionStorage) ListVerified(ctx context.Context) ([]*models.Prediction, error) {
	var records []models.Prediction
	query := badgerhold.Where("ID").Ge(uint64(0)).SortBy("PredictedAt")
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list verified predictions: %w", err)
	}

	result := make([]*models.Prediction, 0, len(records))
	for i := range records {
		if records[i].Verified() {
			result = append(result, &records[i])
		}
	}
	return result, nil
}

func (s *PredictionStorage) ListInRange(ctx context.Context, from, to time.Time) ([]*models.Prediction, error) {
	var records []models.Prediction
	query := badgerhold.Where("PredictedAt").Ge(from).And("PredictedAt").Le(to).SortBy("PredictedAt")
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list predictions in range: %w", err)
	}

	result := make([]*models.Prediction, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *PredictionStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Prediction{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}
	return int(count), nil
}

func (s *PredictionStorage) findByContent(contentID int64) ([]*models.Prediction, error) {
	var records []models.Prediction
	if err := s.db.Store().Find(&records, badgerhold.Where("ContentID").Eq(contentID).Index("ContentID")); err != nil {
		return nil, fmt.Errorf("failed to query predictions for content %d: %w", contentID, err)
	}

	result := make([]*models.Prediction, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}
