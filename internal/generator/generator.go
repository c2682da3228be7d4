// Package generator writes placeholder archives for a range of days, to
// exercise the pruner against a realistic archive directory.
package generator

import (
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/raoulx24/ghe-archiver/internal/fs"
	"github.com/raoulx24/ghe-archiver/internal/logging"
	"github.com/raoulx24/ghe-archiver/internal/naming"
)

const placeholder = "some fake archive content"

type Generator struct {
	codec naming.Codec
	fs    fs.FS
	log   logging.Logger
}

func New(codec naming.Codec, filesystem fs.FS, log logging.Logger) *Generator {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Generator{codec: codec, fs: filesystem, log: log}
}

// WriteFiles creates one archive per day from start to end, both included,
// and returns how many were written.
func (g *Generator) WriteFiles(start, end civil.Date, dir string) (int, error) {
	if !start.IsValid() || !end.IsValid() {
		return 0, fmt.Errorf("incorrect start or end dates: %s, %s", start, end)
	}
	if end.Before(start) {
		return 0, fmt.Errorf("end date %s is before start date %s", end, start)
	}

	n := 0
	for day := start; !day.After(end); day = day.AddDays(1) {
		archive := g.codec.Encode(dir, day)
		g.log.Info("creating archive", "archive", archive)
		if err := g.fs.WriteFile(archive, []byte(placeholder)); err != nil {
			return n, fmt.Errorf("writing %s: %w", archive, err)
		}
		n++
	}
	return n, nil
}
