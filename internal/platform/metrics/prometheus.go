// Package metrics exposes Prometheus counters for normalization runs.
package metrics

import (
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/riskibarqy/matchfeed/internal/domain/event"
	"github.com/riskibarqy/matchfeed/internal/pipeline"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Manager owns the pipeline metrics and the registry they live in.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	records     *prometheus.CounterVec
	events      *prometheus.CounterVec
	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
}

var _ pipeline.Recorder = (*Manager)(nil)

type Option func(*Manager)

func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry registers on an existing registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchfeed",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(m.registry)
	m.records = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_total",
		Help:      "Feed records folded, by outcome",
	}, []string{"provider", "outcome"})

	m.events = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_total",
		Help:      "Canonical events emitted, by kind",
	}, []string{"provider", "kind"})

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Normalization runs, by status",
	}, []string{"provider", "status"})

	m.runDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a normalization run including acquisition",
		Buckets:   m.histogramBuckets,
	}, []string{"provider"})

	return m
}

func (m *Manager) ObserveRecord(provider event.Provider, outcome pipeline.Outcome) {
	m.records.WithLabelValues(string(provider), string(outcome)).Inc()
}

func (m *Manager) ObserveDataset(dataset *event.Dataset) {
	if dataset == nil {
		return
	}
	for kind, count := range dataset.CountByKind() {
		m.events.WithLabelValues(string(dataset.Metadata.Provider), string(kind)).Add(float64(count))
	}
}

func (m *Manager) ObserveRun(provider event.Provider, elapsed time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusFailed
	}
	m.runs.WithLabelValues(string(provider), status).Inc()
	m.runDuration.WithLabelValues(string(provider)).Observe(elapsed.Seconds())
}

func (m *Manager) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile dumps the registry in the node exporter textfile format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return crerr.Wrapf(err, "write metrics textfile %s", path)
	}
	return nil
}
