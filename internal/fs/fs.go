// Package fs defines the filesystem abstraction used by ghe-archiver.
// It provides the FS interface and the FileInfo type shared across the system.
package fs

import (
	"io"
	iofs "io/fs"
	"os"
	"time"
)

type FileInfo struct {
	Path  string
	Size  int64
	MTime time.Time
	IsDir bool
}

// File is a destination handle opened for writing.
type File interface {
	io.Writer
	Name() string
	Sync() error
	Close() error
}

type FS interface {
	Create(path string) (File, error)
	EvalSymlinks(path string) (string, error)
	Stat(path string) (FileInfo, error)
	ReadDir(path string) ([]os.DirEntry, error)
	Remove(path string) error
	Rename(oldPath, newPath string) error
	WriteFile(path string, data []byte) error
	MkdirAll(path string) error
	// Sub returns a read-only view of the tree rooted at root.
	Sub(root string) iofs.FS
}
