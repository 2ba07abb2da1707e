package badger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// BadgerDB wraps the badgerhold store used by all prediction collections
type BadgerDB struct {
	store  *badgerhold.Store
	logger arbor.ILogger
}

// NewBadgerDB opens the Badger database at the configured path, wiping any
// existing data first when reset_on_startup is set
func NewBadgerDB(logger arbor.ILogger, config *common.BadgerConfig) (*BadgerDB, error) {
	if config.ResetOnStartup {
		if _, err := os.Stat(config.Path); err == nil {
			logger.Warn().Str("path", config.Path).Msg("Resetting prediction database (reset_on_startup=true)")
			if err := os.RemoveAll(config.Path); err != nil {
				return nil, fmt.Errorf("failed to reset database directory: %w", err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = config.Path
	options.ValueDir = config.Path
	options.Logger = nil // Badger's own logger is noisy; arbor covers it

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", config.Path).Msg("Badger database opened")

	return &BadgerDB{store: store, logger: logger}, nil
}

// Store returns the underlying badgerhold store
func (b *BadgerDB) Store() *badgerhold.Store {
	return b.store
}

// Close closes the database connection
func (b *BadgerDB) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}
