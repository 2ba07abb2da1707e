// Package app wires configuration, storage and services into a running
// application.
package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/interfaces"
	"github.com/ternarybob/smilewatch/internal/services/extractor"
	"github.com/ternarybob/smilewatch/internal/services/feedback"
	"github.com/ternarybob/smilewatch/internal/services/monitor"
	"github.com/ternarybob/smilewatch/internal/services/notify"
	"github.com/ternarybob/smilewatch/internal/services/scheduler"
	"github.com/ternarybob/smilewatch/internal/signals"
	badgerstore "github.com/ternarybob/smilewatch/internal/storage/badger"
	"github.com/ternarybob/smilewatch/internal/trainer"
)

// App holds the application's services. MonitorService stays nil until
// InitMonitor is called; only the analyze path needs the LLM extractor and
// the other actions should not require provider credentials.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager   interfaces.StorageManager
	NotifyService    interfaces.NotifyService
	SchedulerService interfaces.SchedulerService
	Scorer           *signals.Scorer
	FeedbackService  *feedback.Service

	ExtractorService interfaces.ExtractorService
	MonitorService   *monitor.Service
}

// New initializes storage and the credential-free services, and registers the
// report jobs on the scheduler
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	storage, err := badgerstore.NewManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	keywords := signals.DefaultKeywordTable()
	if cfg.Keywords.File != "" {
		keywords, err = signals.LoadKeywordTable(cfg.Keywords.File)
		if err != nil {
			storage.Close()
			return nil, fmt.Errorf("failed to load keyword table: %w", err)
		}
		logger.Info().Str("file", cfg.Keywords.File).Msg("Keyword table loaded")
	}

	notifier, err := notify.NewWebhookService(&cfg.Webhook, logger)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	application := &App{
		Config:           cfg,
		Logger:           logger,
		StorageManager:   storage,
		NotifyService:    notifier,
		SchedulerService: scheduler.NewService(logger),
		Scorer:           signals.NewScorerWithKeywords(cfg.Scoring, keywords),
	}
	application.FeedbackService = feedback.NewService(
		storage, notifier, trainer.NewTrainer(logger, cfg.Optimizer), cfg, logger)

	if err := application.registerReportJobs(); err != nil {
		storage.Close()
		return nil, err
	}

	logger.Info().Msg("Application initialized")
	return application, nil
}

// InitMonitor builds the LLM extractor and the analysis pipeline. Separate
// from New because it needs provider credentials.
func (a *App) InitMonitor() error {
	if a.MonitorService != nil {
		return nil
	}

	extractorService, err := extractor.NewExtractorService(&a.Config.Extractor, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}

	a.ExtractorService = extractorService
	a.MonitorService = monitor.NewService(
		extractorService,
		a.Scorer,
		a.StorageManager.PredictionStorage(),
		a.NotifyService,
		a.Logger,
	)
	return nil
}

// Close stops the scheduler and releases storage
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduler stop failed")
		}
	}
	if a.StorageManager != nil {
		return a.StorageManager.Close()
	}
	return nil
}

func (a *App) registerReportJobs() error {
	jobs := []struct {
		name     string
		schedule string
		run      func() error
	}{
		{
			name:     "daily-report",
			schedule: a.Config.Reports.DailySchedule,
			run: func() error {
				_, err := a.FeedbackService.DailyReport(context.Background(), "")
				return err
			},
		},
		{
			name:     "weekly-report",
			schedule: a.Config.Reports.WeeklySchedule,
			run: func() error {
				_, err := a.FeedbackService.WeeklyReport(context.Background(), "")
				return err
			},
		},
	}

	for _, job := range jobs {
		if err := a.SchedulerService.RegisterJob(job.name, job.schedule, job.run); err != nil {
			return fmt.Errorf("failed to register %s job: %w", job.name, err)
		}
	}
	return nil
}
