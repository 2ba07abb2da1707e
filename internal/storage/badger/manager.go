package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db         *BadgerDB
	prediction interfaces.PredictionStorage
	errorCase  interfaces.ErrorCaseStorage
	snapshot   interfaces.SnapshotStorage
	logger     arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.Config) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:         db,
		prediction: NewPredictionStorage(db, logger, config.Prediction.LookbackWindow()),
		errorCase:  NewErrorCaseStorage(db, logger),
		snapshot:   NewSnapshotStorage(db, logger),
		logger:     logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// PredictionStorage returns the Prediction storage interface
func (m *Manager) PredictionStorage() interfaces.PredictionStorage {
	return m.prediction
}

// ErrorCaseStorage returns the ErrorCase storage interface
func (m *Manager) ErrorCaseStorage() interfaces.ErrorCaseStorage {
	return m.errorCase
}

// SnapshotStorage returns the Snapshot storage interface
func (m *Manager) SnapshotStorage() interfaces.SnapshotStorage {
	return m.snapshot
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
