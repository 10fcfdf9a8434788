// Package scheduler runs periodic maintenance jobs, such as sample
// retention, on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/janakawicks/manageiq/internal/logging"
)

// Job is the work run on each tick of a schedule.
type Job func(ctx context.Context) error

// Scheduler manages named cron jobs.
type Scheduler struct {
	cron    *cron.Cron
	logger  *logging.Logger
	jobs    map[string]*scheduledJob
	mu      sync.RWMutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

type scheduledJob struct {
	name      string
	cronExpr  string
	cronID    cron.EntryID
	run       Job
	lastRun   time.Time
	lastError error
	running   bool
}

// JobStatus is a snapshot of one scheduled job.
type JobStatus struct {
	Name      string    `json:"name"`
	Schedule  string    `json:"schedule"`
	LastRun   time.Time `json:"last_run"`
	NextRun   time.Time `json:"next_run"`
	LastError string    `json:"last_error,omitempty"`
	Running   bool      `json:"running"`
}

// New creates a stopped scheduler.
func New(logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(),
		logger: logger.WithComponent("scheduler"),
		jobs:   make(map[string]*scheduledJob),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ValidateSchedule reports whether expr is a standard cron expression or
// descriptor such as @hourly.
func ValidateSchedule(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// AddJob registers job under name. Runs never overlap: a tick that fires
// while the previous run is still going is skipped.
func (s *Scheduler) AddJob(name, cronExpr string, job Job) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("job name is required")
	}
	if job == nil {
		return fmt.Errorf("job %q has no function", name)
	}
	if err := ValidateSchedule(cronExpr); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already scheduled", name)
	}

	cronID, err := s.cron.AddFunc(cronExpr, func() { s.execute(name) })
	if err != nil {
		return fmt.Errorf("failed to schedule job %q: %w", name, err)
	}
	s.jobs[name] = &scheduledJob{
		name:     name,
		cronExpr: cronExpr,
		cronID:   cronID,
		run:      job,
	}

	s.logger.Info("Scheduled job", "job", name, "schedule", cronExpr)
	return nil
}

// RemoveJob unschedules a job.
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %q not found", name)
	}
	s.cron.Remove(job.cronID)
	delete(s.jobs, name)
	return nil
}

// Start begins firing schedules.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	if s.ctx.Err() != nil {
		return fmt.Errorf("scheduler has been stopped")
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("Scheduler started", "jobs", len(s.jobs))
	return nil
}

// Stop stops firing schedules and cancels the context of running jobs. It
// waits for running jobs to return. A stopped scheduler cannot be started
// again.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// Jobs returns a snapshot of the scheduled jobs sorted by name.
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]JobStatus, 0, len(s.jobs))
	for _, job := range s.jobs {
		status := JobStatus{
			Name:     job.name,
			Schedule: job.cronExpr,
			LastRun:  job.lastRun,
			NextRun:  s.cron.Entry(job.cronID).Next,
			Running:  job.running,
		}
		if job.lastError != nil {
			status.LastError = job.lastError.Error()
		}
		statuses = append(statuses, status)
	}
	slices.SortFunc(statuses, func(a, b JobStatus) int {
		return strings.Compare(a.Name, b.Name)
	})
	return statuses
}

// RunNow runs a job immediately, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	_, exists := s.jobs[name]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job %q not found", name)
	}
	s.execute(name)
	return nil
}

func (s *Scheduler) execute(name string) {
	job, ok := s.prepareJobExecution(name)
	if !ok {
		return
	}

	start := time.Now()
	err := job.run(s.ctx)
	s.cleanupJobExecution(name, err)

	if err != nil {
		s.logger.Error("Scheduled job failed", "job", name, "duration", time.Since(start), "error", err)
		return
	}
	s.logger.Debug("Scheduled job completed", "job", name, "duration", time.Since(start))
}

// prepareJobExecution marks the job running unless a previous run is
// still in progress.
func (s *Scheduler) prepareJobExecution(name string) (*scheduledJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[name]
	if !exists {
		return nil, false
	}
	if job.running {
		s.logger.Warn("Scheduled job is already running, skipping", "job", name)
		return nil, false
	}

	job.running = true
	job.lastRun = time.Now()
	return job, true
}

func (s *Scheduler) cleanupJobExecution(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, exists := s.jobs[name]; exists {
		job.running = false
		job.lastError = err
	}
}
