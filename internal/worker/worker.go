// Package worker runs the archive and prune flows, either on demand or for
// jobs taken from a mailbox.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"github.com/raoulx24/ghe-archiver/internal/archiver"
	"github.com/raoulx24/ghe-archiver/internal/config"
	"github.com/raoulx24/ghe-archiver/internal/logging"
	"github.com/raoulx24/ghe-archiver/internal/retention"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type Archiver interface {
	Tarball(ctx context.Context, snapshotPath, archivePath string) (archiver.Result, error)
}

type Pruner interface {
	Scan(ctx context.Context, dir string, today civil.Date, policy retention.Policy) (retention.Summary, error)
}

// Recorder receives run outcomes, typically the metrics registry.
type Recorder interface {
	ObserveArchive(res archiver.Result, err error)
	ObservePrune(summary retention.Summary, err error)
}

// Worker runs archive and prune flows against the current configuration.
type Worker struct {
	mu       sync.RWMutex
	cfg      *config.Config
	archiver Archiver
	pruner   Pruner
	rec      Recorder
	clock    Clock
	log      logging.Logger
	mb       *Mailbox
}

// New creates a worker. rec and mb may be nil; a nil clock reads the wall clock.
func New(cfg *config.Config, a Archiver, p Pruner, rec Recorder, mb *Mailbox, clock Clock, log logging.Logger) *Worker {
	log.Debug("creating worker")
	if clock == nil {
		clock = SystemClock{}
	}
	return &Worker{
		cfg:      cfg,
		archiver: a,
		pruner:   p,
		rec:      rec,
		clock:    clock,
		log:      log,
		mb:       mb,
	}
}

// UpdateConfig hot-reloads directories, naming and retention windows.
func (w *Worker) UpdateConfig(cfg *config.Config) {
	w.log.Debug("entering Worker.UpdateConfig()")
	w.mu.Lock()
	w.cfg = cfg
	w.mu.Unlock()
}

func (w *Worker) config() *config.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg
}

// Start runs the worker loop using mailbox semantics until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting worker")
	for {
		job, ok := w.mb.Take(ctx)
		if !ok {
			w.log.Info("worker stopped")
			return
		}
		if err := w.Handle(ctx, job); err != nil {
			w.log.Error("worker: job failed", "kind", string(job.Kind), "error", err)
		}
	}
}

// Handle runs the flow selected by job.
func (w *Worker) Handle(ctx context.Context, job Job) error {
	w.log.Debug("entering Worker.Handle()", "kind", string(job.Kind), "requested", job.Requested)
	switch job.Kind {
	case KindArchive:
		_, err := w.Archive(ctx, "")
		return err
	case KindPrune:
		_, err := w.Prune(ctx, "")
		return err
	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

// Archive writes today's archive of snapshotDir, or of the configured
// snapshot directory when snapshotDir is empty.
func (w *Worker) Archive(ctx context.Context, snapshotDir string) (archiver.Result, error) {
	cfg := w.config()
	if snapshotDir == "" {
		snapshotDir = cfg.Dir.Snapshot
	}
	archivePath := cfg.Codec().Encode(cfg.Dir.Archives, civil.DateOf(w.clock.Now()))

	res, err := w.archiver.Tarball(ctx, snapshotDir, archivePath)
	if w.rec != nil {
		w.rec.ObserveArchive(res, err)
	}
	if err != nil {
		w.log.Error("failed to create an archive", "snapshot", snapshotDir, "archive", archivePath, "error", err)
		return res, err
	}

	w.log.Info("archival for the snapshot completed", "archive", res.Archive, "bytes", res.Bytes)
	return res, nil
}

// Prune applies the retention policy to archivesDir, or to the configured
// archive directory when archivesDir is empty. Today is read once per run.
func (w *Worker) Prune(ctx context.Context, archivesDir string) (retention.Summary, error) {
	cfg := w.config()
	if archivesDir == "" {
		archivesDir = cfg.Dir.Archives
	}
	today := civil.DateOf(w.clock.Now())

	summary, err := w.pruner.Scan(ctx, archivesDir, today, Policy(cfg.Retention))
	if w.rec != nil {
		w.rec.ObservePrune(summary, err)
	}
	if err != nil {
		w.log.Error("failed to prune archives", "dir", archivesDir, "error", err)
		return summary, err
	}
	return summary, nil
}

// Policy maps the retention configuration onto a retention policy.
func Policy(r config.RetentionConfig) retention.Policy {
	return retention.Policy{
		Days:   r.Days,
		Weeks:  r.Weeks,
		Months: r.Months,
		Years:  r.Years,
	}
}

// Options maps the retention configuration onto pruning options.
func Options(r config.RetentionConfig) retention.Options {
	return retention.Options{
		Concurrency: r.Concurrency,
		DryRun:      r.DryRun,
	}
}
