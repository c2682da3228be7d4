package generator_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/ghe-archiver/internal/fs"
	"github.com/raoulx24/ghe-archiver/internal/generator"
	"github.com/raoulx24/ghe-archiver/internal/logging"
	"github.com/raoulx24/ghe-archiver/internal/naming"
)

// recordingFS captures WriteFile calls and delegates nothing else.
type recordingFS struct {
	fs.FS
	written []string
	failAt  int
}

func (r *recordingFS) WriteFile(path string, _ []byte) error {
	if r.failAt > 0 && len(r.written)+1 == r.failAt {
		return errors.New("disk full")
	}
	r.written = append(r.written, path)
	return nil
}

func TestWriteFilesLeapFebruary(t *testing.T) {
	rec := &recordingFS{}
	g := generator.New(naming.New("2006-01-02-Mon", ".tar"), rec, logging.Nop())

	n, err := g.WriteFiles(
		civil.Date{Year: 2016, Month: time.February, Day: 1},
		civil.Date{Year: 2016, Month: time.February, Day: 29},
		"a-folder",
	)
	require.NoError(t, err)

	assert.Equal(t, 29, n)
	require.Len(t, rec.written, 29)
	assert.Equal(t, "a-folder/GitHub-2016-02-01-Mon.tar", rec.written[0])
	assert.Contains(t, rec.written, "a-folder/GitHub-2016-02-02-Tue.tar")
	assert.Contains(t, rec.written, "a-folder/GitHub-2016-02-03-Wed.tar")
	assert.Contains(t, rec.written, "a-folder/GitHub-2016-02-04-Thu.tar")
	assert.Contains(t, rec.written, "a-folder/GitHub-2016-02-28-Sun.tar")
	assert.Equal(t, "a-folder/GitHub-2016-02-29-Mon.tar", rec.written[28])
}

func TestWriteFilesSingleDay(t *testing.T) {
	rec := &recordingFS{}
	g := generator.New(naming.New("", ""), rec, logging.Nop())

	day := civil.Date{Year: 2015, Month: time.September, Day: 16}
	n, err := g.WriteFiles(day, day, "/archives")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"/archives/GitHub-2015-09-16-Wed.tar"}, rec.written)
}

func TestWriteFilesErrors(t *testing.T) {
	g := generator.New(naming.New("", ""), &recordingFS{}, logging.Nop())

	_, err := g.WriteFiles(civil.Date{Year: 2016, Month: time.March, Day: 1}, civil.Date{Year: 2016, Month: time.February, Day: 1}, "d")
	assert.Error(t, err)

	_, err = g.WriteFiles(civil.Date{}, civil.Date{Year: 2016, Month: time.February, Day: 1}, "d")
	assert.Error(t, err)

	rec := &recordingFS{failAt: 3}
	g = generator.New(naming.New("", ""), rec, logging.Nop())
	n, err := g.WriteFiles(civil.Date{Year: 2016, Month: time.February, Day: 1}, civil.Date{Year: 2016, Month: time.February, Day: 29}, "d")
	assert.Error(t, err)
	assert.Equal(t, 2, n)
}

func TestWriteFilesOnDisk(t *testing.T) {
	dir := t.TempDir()
	g := generator.New(naming.New("", ""), fs.New(), logging.Nop())

	n, err := g.WriteFiles(civil.Date{Year: 2015, Month: time.December, Day: 30}, civil.Date{Year: 2016, Month: time.January, Day: 2}, dir)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	data, err := os.ReadFile(filepath.Join(dir, "GitHub-2016-01-01-Fri.tar"))
	require.NoError(t, err)
	assert.Equal(t, "some fake archive content", string(data))
}
