package watcher

import (
	"context"
	"time"
)

const defaultPollInterval = 10 * time.Second

// StartPolling triggers detect() on a fixed interval.
func (w *Watcher) StartPolling(ctx context.Context) {
	w.mu.RLock()
	interval := w.interval
	path := w.path
	w.mu.RUnlock()

	if interval <= 0 {
		interval = defaultPollInterval
	}
	w.log.Info("watching config file", "path", path, "method", "poll", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.detect()
		}
	}
}
