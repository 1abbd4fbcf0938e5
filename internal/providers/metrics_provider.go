package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"fixd/internal/services"
	"fixd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncScans()
	IncScansDenied()
	IncSubmissions()
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	scansTotal          prometheus.Counter
	scansDeniedTotal    prometheus.Counter
	submissionsTotal    prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncScans() {
	m.scansTotal.Inc()
}

func (m *MetricsProvider) IncScansDenied() {
	m.scansDeniedTotal.Inc()
}

func (m *MetricsProvider) IncSubmissions() {
	m.submissionsTotal.Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, subscription services.SubscriptionServiceInterface, outcome services.OutcomeServiceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fixd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fixd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fixd_cache_hits_total",
			Help: "Total number of stats cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fixd_cache_misses_total",
			Help: "Total number of stats cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fixd_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		scansTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fixd_scans_total",
			Help: "Total number of accepted diagnostic scans",
		}),

		scansDeniedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fixd_scans_denied_total",
			Help: "Total number of scans denied by the quota gate",
		}),

		submissionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fixd_submissions_total",
			Help: "Total number of accepted repair submissions",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "fixd_history_sessions",
		Help: "Current number of diagnostic sessions in history",
	}, func() float64 {
		return float64(subscription.HistoryLen())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "fixd_followups_due",
		Help: "Current number of due repair follow-ups",
	}, func() float64 {
		return float64(outcome.DueCount())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncScans()                                        {}
func (n *noopMetrics) IncScansDenied()                                  {}
func (n *noopMetrics) IncSubmissions()                                  {}
