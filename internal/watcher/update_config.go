package watcher

import (
	"github.com/raoulx24/ghe-archiver/internal/config"
)

// UpdateConfig updates watcher fields atomically for hot-reload. A new
// method or poll interval takes effect the next time the watcher starts.
func (w *Watcher) UpdateConfig(cfg config.ReloadConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.interval = cfg.PollInterval
	w.mode = cfg.Method
	w.debounce = cfg.Debounce
}
