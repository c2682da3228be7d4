package watcher

import (
	"os"
)

// detect reloads the configuration if the file changed since last seen.
func (w *Watcher) detect() {
	w.mu.RLock()
	path := w.path
	last := w.lastModTime
	size := w.lastSize
	w.mu.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		w.log.Debug("config file not readable", "path", path, "error", err)
		return
	}

	mod := info.ModTime()
	if mod.Equal(last) && info.Size() == size {
		return
	}

	w.mu.Lock()
	w.lastModTime = mod
	w.lastSize = info.Size()
	w.mu.Unlock()

	_ = w.Reload()
}
