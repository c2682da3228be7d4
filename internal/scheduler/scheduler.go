// Package scheduler fires archive and prune jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/ghe-archiver/internal/config"
	"github.com/raoulx24/ghe-archiver/internal/logging"
	"github.com/raoulx24/ghe-archiver/internal/worker"
)

// Scheduler puts a job in the mailbox every time a schedule fires. Jobs
// are not run here; a busy worker only sees the latest request of each kind.
type Scheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	mb       *worker.Mailbox
	schedule config.ScheduleConfig
	entries  map[worker.Kind]cron.EntryID
	log      logging.Logger
	running  bool
}

// New creates a scheduler for the given cron expressions. An empty
// expression disables that flow.
func New(schedule config.ScheduleConfig, mb *worker.Mailbox, log logging.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		mb:       mb,
		schedule: schedule,
		entries:  make(map[worker.Kind]cron.EntryID),
		log:      log,
	}
}

// Start registers the schedules and starts firing them. The scheduler
// stops when ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.register(s.schedule); err != nil {
		return err
	}
	if len(s.entries) == 0 {
		s.log.Warn("no schedule configured, nothing will run")
	}

	s.cron.Start()
	s.running = true
	s.log.Info("scheduler started", "archive", s.schedule.Archive, "prune", s.schedule.Prune)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Reload replaces the registered schedules. On error the previous
// schedules stay in place.
func (s *Scheduler) Reload(schedule config.ScheduleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if schedule == s.schedule {
		return nil
	}
	for kind, spec := range specs(schedule) {
		if spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid %s schedule %q: %w", kind, spec, err)
		}
	}

	for kind, id := range s.entries {
		s.cron.Remove(id)
		delete(s.entries, kind)
	}
	if err := s.register(schedule); err != nil {
		return err
	}
	s.schedule = schedule
	s.log.Info("schedules reloaded", "archive", schedule.Archive, "prune", schedule.Prune)
	return nil
}

// Stop stops the scheduler and waits for any running enqueue to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.log.Info("scheduler stopped")
	}
}

// Next returns the next firing time of each registered flow.
func (s *Scheduler) Next() map[worker.Kind]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[worker.Kind]time.Time, len(s.entries))
	for kind, id := range s.entries {
		next[kind] = s.cron.Entry(id).Next
	}
	return next
}

func (s *Scheduler) register(schedule config.ScheduleConfig) error {
	for kind, spec := range specs(schedule) {
		if spec == "" {
			continue
		}
		id, err := s.cron.AddFunc(spec, s.enqueue(kind))
		if err != nil {
			return fmt.Errorf("failed to schedule %s: %w", kind, err)
		}
		s.entries[kind] = id
	}
	return nil
}

func (s *Scheduler) enqueue(kind worker.Kind) func() {
	return func() {
		s.log.Debug("schedule fired", "kind", string(kind))
		s.mb.Put(worker.Job{Kind: kind, Requested: time.Now()})
	}
}

func specs(schedule config.ScheduleConfig) map[worker.Kind]string {
	return map[worker.Kind]string{
		worker.KindArchive: schedule.Archive,
		worker.KindPrune:   schedule.Prune,
	}
}
