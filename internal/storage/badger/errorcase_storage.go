package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/interfaces"
	"github.com/ternarybob/smilewatch/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ErrorCaseStorage implements the ErrorCaseStorage interface for Badger
type ErrorCaseStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewErrorCaseStorage creates a new ErrorCaseStorage instance
func NewErrorCaseStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ErrorCaseStorage {
	return &ErrorCaseStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ErrorCaseStorage) Save(ctx context.Context, errorCase *models.ErrorCase) error {
	if errorCase.CreatedAt.IsZero() {
		errorCase.CreatedAt = time.Now()
	}

	if err := s.db.Store().Insert(badgerhold.NextSequence(), errorCase); err != nil {
		return fmt.Errorf("failed to save error case: %w", err)
	}

	s.logger.Debug().
		Uint64("prediction_id", errorCase.PredictionID).
		Str("category", string(errorCase.Category)).
		Msg("Error case recorded")

	return nil
}

func (s *ErrorCaseStorage) ListRecent(ctx context.Context, limit int) ([]*models.ErrorCase, error) {
	query := badgerhold.Where("ID").Ge(uint64(0)).SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []models.ErrorCase
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list error cases: %w", err)
	}

	result := make([]*models.ErrorCase, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *ErrorCaseStorage) CountByCategory(ctx context.Context) (map[models.ErrorCategory]int, error) {
	var records []models.ErrorCase
	if err := s.db.Store().Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to scan error cases: %w", err)
	}

	counts := make(map[models.ErrorCategory]int)
	for i := range records {
		counts[records[i].Category]++
	}
	return counts, nil
}
