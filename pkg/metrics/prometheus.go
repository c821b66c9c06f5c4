// Package metrics provides Prometheus metrics for the muttmix contest service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  prometheus.Registerer

	// Write path
	submissionsRecorded prometheus.Counter
	submissionsRejected *prometheus.CounterVec
	votesRecorded       prometheus.Counter
	votesRejected       *prometheus.CounterVec

	// Read path
	leaderboardComputeDuration prometheus.Histogram
	leaderboardRows            prometheus.Gauge
	tallyComputeDuration       prometheus.Histogram

	// Answer set lifecycle
	answerReloads       prometheus.Counter
	answerReloadFailures prometheus.Counter

	// HTTP layer
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // avoids default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "muttmix",
		subsystem: "contest",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initCollectors()
	return m
}

func (m *Manager) initCollectors() {
	auto := promauto.With(m.registry)

	m.submissionsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "submissions_recorded_total",
		Help: "Guess submissions appended to the log.",
	})
	m.submissionsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "submissions_rejected_total",
		Help: "Guess submissions rejected before append.",
	}, []string{"reason"})
	m.votesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "votes_recorded_total",
		Help: "New-breed votes appended to the log.",
	})
	m.votesRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "votes_rejected_total",
		Help: "New-breed votes rejected before append.",
	}, []string{"reason"})

	m.leaderboardComputeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "leaderboard_compute_duration_ms",
		Help:    "Time spent recomputing the leaderboard from the submission log.",
		Buckets: m.buckets,
	})
	m.leaderboardRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "leaderboard_rows",
		Help: "Rows in the most recently computed leaderboard.",
	})
	m.tallyComputeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "tally_compute_duration_ms",
		Help:    "Time spent recomputing the vote tally from the vote log.",
		Buckets: m.buckets,
	})

	m.answerReloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "answer_reloads_total",
		Help: "Successful answer-set loads.",
	})
	m.answerReloadFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "answer_reload_failures_total",
		Help: "Answer-set loads rejected as malformed.",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name: "requests_total",
		Help: "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name:    "request_duration_ms",
		Help:    "HTTP request duration by endpoint, method and status.",
		Buckets: m.buckets,
	}, []string{"endpoint", "method", "status"})
	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name: "errors_total",
		Help: "HTTP error responses by endpoint and class.",
	}, []string{"endpoint", "class"})
}

// Package-level helpers against the global manager.

func RecordSubmission()                  { globalManager.submissionsRecorded.Inc() }
func RecordSubmissionRejected(r string)  { globalManager.submissionsRejected.WithLabelValues(r).Inc() }
func RecordVote()                        { globalManager.votesRecorded.Inc() }
func RecordVoteRejected(r string)        { globalManager.votesRejected.WithLabelValues(r).Inc() }
func RecordAnswerReload()                { globalManager.answerReloads.Inc() }
func RecordAnswerReloadFailure()         { globalManager.answerReloadFailures.Inc() }
func RecordLeaderboardCompute(ms float64) {
	globalManager.leaderboardComputeDuration.Observe(ms)
}
func UpdateLeaderboardRows(n int)     { globalManager.leaderboardRows.Set(float64(n)) }
func RecordTallyCompute(ms float64)   { globalManager.tallyComputeDuration.Observe(ms) }

// RecordHTTPRequest records one request outcome.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records one request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// RecordHTTPError records an error response by class (client_error, server_error, ...).
func RecordHTTPError(endpoint, class string) {
	globalManager.httpErrors.WithLabelValues(endpoint, class).Inc()
}

// GetRegistry exposes the custom registry for the /healthz scrape handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
