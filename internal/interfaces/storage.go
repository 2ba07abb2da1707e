package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/smilewatch/internal/models"
)

// Storage error conditions. All are local, recoverable; callers test with
// errors.Is and log rather than crash the batch.
var (
	// ErrDuplicatePrediction is returned when an unverified prediction already
	// exists for the content ID inside the lookback window
	ErrDuplicatePrediction = errors.New("active prediction already exists for content")

	// ErrPredictionNotFound is returned when verification targets a content ID
	// with no unverified prediction
	ErrPredictionNotFound = errors.New("no pending prediction for content")

	// ErrAlreadyVerified is returned on a second verification attempt; each
	// prediction is verified at most once
	ErrAlreadyVerified = errors.New("prediction already verified")
)

// PredictionStorage persists smile predictions. The collection is
// append-only: records are created once, verified at most once, never
// deleted.
type PredictionStorage interface {
	// Create stores a new prediction and returns its assigned ID. Fails with
	// ErrDuplicatePrediction when an unverified prediction for the same
	// content ID exists inside the lookback window.
	Create(ctx context.Context, contentID int64, prediction *models.Prediction) (uint64, error)

	// Verify attaches ground truth to the most recent unverified prediction
	// for the content ID and returns the updated record. Fails with
	// ErrPredictionNotFound or ErrAlreadyVerified.
	Verify(ctx context.Context, contentID int64, actual models.SmileLabel, actualCount float64) (*models.Prediction, error)

	// ListPending returns unverified predictions since the given time, newest
	// first
	ListPending(ctx context.Context, since time.Time) ([]*models.Prediction, error)

	// ListVerified returns verified predictions, oldest first
	ListVerified(ctx context.Context) ([]*models.Prediction, error)

	// ListInRange returns all predictions whose prediction date falls inside
	// [from, to], oldest first
	ListInRange(ctx context.Context, from, to time.Time) ([]*models.Prediction, error)

	// Count returns the total number of stored predictions
	Count(ctx context.Context) (int, error)
}

// ErrorCaseStorage persists classified wrong predictions. Append-only.
type ErrorCaseStorage interface {
	Save(ctx context.Context, errorCase *models.ErrorCase) error
	ListRecent(ctx context.Context, limit int) ([]*models.ErrorCase, error)
	CountByCategory(ctx context.Context) (map[models.ErrorCategory]int, error)
}

// SnapshotStorage persists the immutable model-performance time series
type SnapshotStorage interface {
	Save(ctx context.Context, snapshot *models.PerformanceSnapshot) error
	List(ctx context.Context) ([]*models.PerformanceSnapshot, error)
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	PredictionStorage() PredictionStorage
	ErrorCaseStorage() ErrorCaseStorage
	SnapshotStorage() SnapshotStorage
	Close() error
}
