package snapshot

import (
	"os"
	"path/filepath"
	"time"
)

// Artifact describes a single entry written to an archive
type Artifact struct {
	Name    string // slash separated, relative to the snapshot root
	Size    int64
	ModTime time.Time
	Mode    os.FileMode
}

// FromFileInfo constructs an Artifact from a relative path and os.FileInfo.
func FromFileInfo(rel string, info os.FileInfo) Artifact {
	return Artifact{
		Name:    filepath.ToSlash(rel),
		ModTime: info.ModTime(),
		Size:    info.Size(),
		Mode:    info.Mode(),
	}
}

// TotalSize sums the size of the regular files in artifacts.
func TotalSize(artifacts []Artifact) int64 {
	var n int64
	for _, a := range artifacts {
		if a.Mode.IsRegular() {
			n += a.Size
		}
	}
	return n
}
