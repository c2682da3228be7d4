// Package retention decides which dated archives to keep and prunes the rest.
package retention

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"

	"github.com/raoulx24/ghe-archiver/internal/fs"
	"github.com/raoulx24/ghe-archiver/internal/logging"
	"github.com/raoulx24/ghe-archiver/internal/naming"
)

var (
	ErrDirectoryList = errors.New("cannot read archive directory")
	ErrDeletion      = errors.New("cannot remove archive")
)

// Outcome is the result of pruning a single directory entry.
type Outcome string

const (
	OutcomeKeep    Outcome = "keep"
	OutcomeRemoved Outcome = "removed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Outcomes lists every outcome in reporting order.
var Outcomes = []Outcome{OutcomeKeep, OutcomeRemoved, OutcomeFailed, OutcomeSkipped}

const defaultConcurrency = 8

// Summary aggregates the outcomes of one scan.
type Summary struct {
	Dir    string
	DryRun bool
	Total  int
	counts map[Outcome]int
}

// Count returns how many entries ended with outcome o.
func (s Summary) Count(o Outcome) int {
	return s.counts[o]
}

func (s *Summary) add(o Outcome) {
	if s.counts == nil {
		s.counts = make(map[Outcome]int, len(Outcomes))
	}
	s.counts[o]++
	s.Total++
}

// Options tune how the engine prunes.
type Options struct {
	Concurrency int
	DryRun      bool
}

// Engine prunes archives that no retention rule keeps.
type Engine struct {
	mu    sync.RWMutex
	codec naming.Codec
	opts  Options
	fs    fs.FS
	log   logging.Logger
}

// New creates an engine. A nil filesystem means the local disk.
func New(codec naming.Codec, opts Options, filesystem fs.FS, log logging.Logger) *Engine {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Engine{
		codec: codec,
		opts:  normalize(opts),
		fs:    filesystem,
		log:   log,
	}
}

// UpdateConfig swaps the codec and options used by later scans.
func (e *Engine) UpdateConfig(codec naming.Codec, opts Options) {
	e.mu.Lock()
	e.codec = codec
	e.opts = normalize(opts)
	e.mu.Unlock()
}

func normalize(opts Options) Options {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return opts
}

func (e *Engine) settings() (naming.Codec, Options) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.codec, e.opts
}

// Scan prunes every entry of dir against policy. Entries are processed
// concurrently and the summary is returned once all of them are done.
// A directory that cannot be listed aborts the scan before any entry is touched.
func (e *Engine) Scan(ctx context.Context, dir string, today civil.Date, policy Policy) (Summary, error) {
	codec, opts := e.settings()
	summary := Summary{Dir: dir, DryRun: opts.DryRun}

	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		e.log.Error("cannot read directory", "dir", dir, "error", err)
		return summary, fmt.Errorf("%w %s: %w", ErrDirectoryList, dir, err)
	}

	outcomes := make([]Outcome, len(entries))
	var g errgroup.Group
	g.SetLimit(opts.Concurrency)

	for i, ent := range entries {
		if ctx.Err() != nil {
			break
		}
		if ent.IsDir() {
			outcomes[i] = OutcomeSkipped
			continue
		}
		g.Go(func() error {
			outcomes[i] = e.prune(codec, opts, today, policy, dir, ent.Name())
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	for _, o := range outcomes {
		summary.add(o)
	}

	e.log.Info("processed archives",
		"dir", dir,
		"total", summary.Total,
		"kept", summary.Count(OutcomeKeep),
		"removed", summary.Count(OutcomeRemoved),
		"failed", summary.Count(OutcomeFailed),
		"skipped", summary.Count(OutcomeSkipped),
		"dryRun", summary.DryRun,
	)
	return summary, nil
}

// Prune keeps or deletes a single file. Names that are not archives are
// skipped and never deleted. A failed deletion is logged and left for the
// next run.
func (e *Engine) Prune(ctx context.Context, today civil.Date, policy Policy, dir, name string) Outcome {
	codec, opts := e.settings()
	return e.prune(codec, opts, today, policy, dir, name)
}

// prune works with the settings captured by the caller, so a reload in the
// middle of a scan does not change how the remaining files are handled.
func (e *Engine) prune(codec naming.Codec, opts Options, today civil.Date, policy Policy, dir, name string) Outcome {
	path := filepath.Join(dir, name)

	date, err := codec.Decode(path)
	if err != nil {
		e.log.Warn("skipping unrecognized file", "path", path, "error", err)
		return OutcomeSkipped
	}
	if !date.IsValid() {
		e.log.Warn("skipping archive with invalid date", "path", path, "date", date.String())
		return OutcomeSkipped
	}

	if rule, ok := policy.Retains(date, today); ok {
		e.log.Info("keeping archive", "path", path, "rule", rule.String())
		return OutcomeKeep
	}

	if opts.DryRun {
		e.log.Info("would remove archive", "path", path)
		return OutcomeRemoved
	}

	if err := e.fs.Remove(path); err != nil {
		e.log.Error("unable to remove archive", "path", path, "error", fmt.Errorf("%w: %w", ErrDeletion, err))
		return OutcomeFailed
	}

	e.log.Info("removed archive", "path", path)
	return OutcomeRemoved
}
