package snapshot

import (
	"errors"
	"fmt"

	"github.com/raoulx24/ghe-archiver/internal/fs"
)

var ErrNotDirectory = errors.New("snapshot is not a directory")

// Snapshot is a directory tree captured at a point in time.
type Snapshot struct {
	Path string // as given, possibly a symlink such as .../current
	Root string // Path with every symlink resolved
}

// Resolve follows the symlinks in path. The target must be a directory.
func Resolve(fsys fs.FS, path string) (Snapshot, error) {
	root, err := fsys.EvalSymlinks(path)
	if err != nil {
		return Snapshot{}, err
	}
	info, err := fsys.Stat(root)
	if err != nil {
		return Snapshot{}, err
	}
	if !info.IsDir {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	return Snapshot{Path: path, Root: root}, nil
}

// Resolved reports whether Path pointed somewhere else.
func (s Snapshot) Resolved() bool {
	return s.Path != s.Root
}
