package interfaces

import "time"

// JobStatus describes one registered scheduler job
type JobStatus struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// SchedulerService runs the periodic report jobs
type SchedulerService interface {
	RegisterJob(name, schedule string, handler func() error) error
	Start() error
	Stop() error
	Jobs() []JobStatus
}
