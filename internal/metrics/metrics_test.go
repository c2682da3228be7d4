package metrics

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/ghe-archiver/internal/archiver"
	"github.com/raoulx24/ghe-archiver/internal/retention"
)

func TestObserveArchive(t *testing.T) {
	m := New()

	m.ObserveArchive(archiver.Result{Bytes: 2048, Duration: 3 * time.Second}, nil)
	m.ObserveArchive(archiver.Result{}, errors.New("disk full"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.archiveRuns.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.archiveRuns.WithLabelValues("failure")))
	assert.Equal(t, 2048.0, testutil.ToFloat64(m.archiveBytes))
	assert.Positive(t, testutil.ToFloat64(m.lastSuccess.WithLabelValues("archive")))
}

func TestObservePrune(t *testing.T) {
	m := New()

	m.ObservePrune(retention.Summary{}, nil)
	m.ObservePrune(retention.Summary{}, errors.New("cannot list"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.pruneRuns.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pruneRuns.WithLabelValues("failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.pruneFiles.WithLabelValues("removed")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveArchive(archiver.Result{Bytes: 10}, nil)

	path := filepath.Join(t.TempDir(), "ghe_archiver.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ghe_archiver_archive_runs_total")
	assert.Contains(t, string(data), "ghe_archiver_archive_bytes 10")
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObservePrune(retention.Summary{}, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `ghe_archiver_prune_runs_total{result="success"} 1`)
}
