// Package watcher monitors the configuration file and re-applies it when it changes.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/raoulx24/ghe-archiver/internal/config"
	"github.com/raoulx24/ghe-archiver/internal/fsprobe"
	"github.com/raoulx24/ghe-archiver/internal/logging"
)

const probeTimeout = 200 * time.Millisecond

// ApplyFunc receives every configuration that loaded and validated.
type ApplyFunc func(cfg *config.Config)

// Watcher observes the configuration file and applies new versions.
type Watcher struct {
	mu sync.RWMutex

	path     string
	interval time.Duration
	mode     string
	debounce time.Duration

	log logging.Logger

	lastModTime time.Time
	lastSize    int64

	load  func(path string) (*config.Config, error)
	apply ApplyFunc
}

// New creates a watcher for the configuration file at path.
func New(path string, cfg config.ReloadConfig, log logging.Logger, apply ApplyFunc) *Watcher {
	w := &Watcher{
		path:     path,
		interval: cfg.PollInterval,
		mode:     cfg.Method,
		debounce: cfg.Debounce,
		log:      log,
		load:     config.Load,
		apply:    apply,
	}
	if info, err := os.Stat(path); err == nil {
		w.lastModTime = info.ModTime()
		w.lastSize = info.Size()
	}
	return w
}

// Start chooses the correct watching strategy based on config. It blocks
// until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.RLock()
	mode := w.mode
	dir := filepath.Dir(w.path)
	w.mu.RUnlock()

	switch mode {
	case "fsnotify":
		return w.StartFsNotify(ctx)

	case "poll":
		w.StartPolling(ctx)
		return nil

	case "auto", "":
		res := fsprobe.Probe(dir, probeTimeout)
		if res.FsnotifySupported {
			return w.StartFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled, polling config file", "reason", res.Reason)
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// Reload loads the configuration file and applies it whether or not it
// changed. An invalid file is logged and the current configuration kept.
func (w *Watcher) Reload() error {
	w.mu.RLock()
	path := w.path
	w.mu.RUnlock()

	cfg, err := w.load(path)
	if err != nil {
		w.log.Error("config reload failed, keeping current config", "path", path, "error", err)
		return err
	}

	w.log.Info("config reloaded", "path", path)
	w.apply(cfg)
	return nil
}
