package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/interfaces"
	"github.com/ternarybob/smilewatch/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SnapshotStorage implements the SnapshotStorage interface for Badger
type SnapshotStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSnapshotStorage creates a new SnapshotStorage instance
func NewSnapshotStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SnapshotStorage {
	return &SnapshotStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SnapshotStorage) Save(ctx context.Context, snapshot *models.PerformanceSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	if snapshot.EvaluatedAt.IsZero() {
		snapshot.EvaluatedAt = time.Now()
	}

	if err := s.db.Store().Insert(snapshot.ID, snapshot); err != nil {
		return fmt.Errorf("failed to save performance snapshot: %w", err)
	}

	s.logger.Debug().
		Str("model_version", snapshot.ModelVersion).
		Float64("accuracy", snapshot.Accuracy).
		Int("sample_size", snapshot.SampleSize).
		Msg("Performance snapshot saved")

	return nil
}

func (s *SnapshotStorage) List(ctx context.Context) ([]*models.PerformanceSnapshot, error) {
	var records []models.PerformanceSnapshot
	query := badgerhold.Where("ID").Ne("").SortBy("EvaluatedAt")
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list performance snapshots: %w", err)
	}

	result := make([]*models.PerformanceSnapshot, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}
