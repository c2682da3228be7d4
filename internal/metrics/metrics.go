// Package metrics exposes archive and prune run statistics to Prometheus,
// either over HTTP in serve mode or through a node_exporter textfile.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raoulx24/ghe-archiver/internal/archiver"
	"github.com/raoulx24/ghe-archiver/internal/retention"
)

const namespace = "ghe_archiver"

type Metrics struct {
	registry        *prometheus.Registry
	archiveRuns     *prometheus.CounterVec
	archiveDuration prometheus.Histogram
	archiveBytes    prometheus.Gauge
	pruneFiles      *prometheus.CounterVec
	pruneRuns       *prometheus.CounterVec
	lastSuccess     *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		archiveRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_runs_total",
			Help:      "Archive runs by result.",
		}, []string{"result"}),
		archiveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "archive_duration_seconds",
			Help:      "Time spent writing an archive.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}),
		archiveBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "archive_bytes",
			Help:      "Size of the last archive written.",
		}),
		pruneFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prune_files_total",
			Help:      "Archive directory entries processed by the pruner, by outcome.",
		}, []string{"outcome"}),
		pruneRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prune_runs_total",
			Help:      "Prune runs by result.",
		}, []string{"result"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run, by flow.",
		}, []string{"flow"}),
	}

	m.registry.MustRegister(
		m.archiveRuns,
		m.archiveDuration,
		m.archiveBytes,
		m.pruneFiles,
		m.pruneRuns,
		m.lastSuccess,
	)
	return m
}

// ObserveArchive records the outcome of one archive run.
func (m *Metrics) ObserveArchive(res archiver.Result, err error) {
	if err != nil {
		m.archiveRuns.WithLabelValues("failure").Inc()
		return
	}
	m.archiveRuns.WithLabelValues("success").Inc()
	m.archiveDuration.Observe(res.Duration.Seconds())
	m.archiveBytes.Set(float64(res.Bytes))
	m.lastSuccess.WithLabelValues("archive").Set(float64(time.Now().Unix()))
}

// ObservePrune records the outcome of one prune run.
func (m *Metrics) ObservePrune(summary retention.Summary, err error) {
	for _, o := range retention.Outcomes {
		m.pruneFiles.WithLabelValues(string(o)).Add(float64(summary.Count(o)))
	}
	if err != nil {
		m.pruneRuns.WithLabelValues("failure").Inc()
		return
	}
	m.pruneRuns.WithLabelValues("success").Inc()
	m.lastSuccess.WithLabelValues("prune").Set(float64(time.Now().Unix()))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
