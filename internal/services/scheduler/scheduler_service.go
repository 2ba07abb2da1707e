// Package scheduler runs the periodic report jobs on cron schedules.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/interfaces"
)

// jobEntry tracks one registered job and its last outcome
type jobEntry struct {
	name     string
	schedule string
	handler  func() error
	cronID   cron.EntryID
	lastRun  *time.Time
	lastErr  string
}

// Service implements the SchedulerService interface on robfig/cron. Job
// handlers run sequentially in cron's goroutine; report jobs are short and
// there are few of them.
type Service struct {
	cron    *cron.Cron
	jobs    map[string]*jobEntry
	logger  arbor.ILogger
	mu      sync.Mutex
	running bool
}

// NewService creates a new scheduler service
func NewService(logger arbor.ILogger) interfaces.SchedulerService {
	return &Service{
		cron:   cron.New(),
		jobs:   make(map[string]*jobEntry),
		logger: logger,
	}
}

// RegisterJob adds a named job with a cron schedule. Handler errors are
// recorded on the job status and logged, never propagated.
func (s *Service) RegisterJob(name, schedule string, handler func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job '%s' is already registered", name)
	}

	entry := &jobEntry{
		name:     name,
		schedule: schedule,
		handler:  handler,
	}

	cronID, err := s.cron.AddFunc(schedule, func() { s.runJob(entry) })
	if err != nil {
		return fmt.Errorf("failed to add job '%s' to cron: %w", name, err)
	}
	entry.cronID = cronID
	s.jobs[name] = entry

	s.logger.Info().
		Str("job", name).
		Str("schedule", schedule).
		Msg("Scheduler job registered")

	return nil
}

// Start begins running registered jobs
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	s.cron.Start()
	s.running = true
	s.logger.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler and waits for any in-flight job to finish
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// Jobs returns the status of every registered job
func (s *Service) Jobs() []interfaces.JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]interfaces.JobStatus, 0, len(s.jobs))
	for _, entry := range s.jobs {
		status := interfaces.JobStatus{
			Name:      entry.name,
			Schedule:  entry.schedule,
			LastRun:   entry.lastRun,
			LastError: entry.lastErr,
		}
		if s.running {
			next := s.cron.Entry(entry.cronID).Next
			if !next.IsZero() {
				status.NextRun = &next
			}
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func (s *Service) runJob(entry *jobEntry) {
	now := time.Now()
	s.logger.Debug().Str("job", entry.name).Msg("Running scheduled job")

	err := entry.handler()

	s.mu.Lock()
	entry.lastRun = &now
	if err != nil {
		entry.lastErr = err.Error()
	} else {
		entry.lastErr = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Str("job", entry.name).Msg("Scheduled job failed")
		return
	}
	s.logger.Info().
		Str("job", entry.name).
		Dur("duration", time.Since(now)).
		Msg("Scheduled job completed")
}
