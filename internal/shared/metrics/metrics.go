package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application collectors. A nil *Metrics is valid and records nothing,
// so services can be built without metrics in tests.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	EntriesCreated      *prometheus.CounterVec
	DuplicateEntries    prometheus.Counter
	PhotoUploadFailures prometheus.Counter
	RealtimeSubscribers prometheus.Gauge
	RateLimited         *prometheus.CounterVec
}

// New registers every collector on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "club_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "club_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		EntriesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "club_entries_created_total",
			Help: "Check-ins recorded by entry category",
		}, []string{"category"}),
		DuplicateEntries: factory.NewCounter(prometheus.CounterOpts{
			Name: "club_entries_duplicate_rejected_total",
			Help: "Check-ins rejected because the person already entered today",
		}),
		PhotoUploadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "club_photo_upload_failures_total",
			Help: "Member photo uploads that failed after all retries",
		}),
		RealtimeSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "club_realtime_subscribers",
			Help: "Connected pool entry websocket subscribers",
		}),
		RateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "club_rate_limited_total",
			Help: "Requests rejected by a rate limit, by limit name",
		}, []string{"limit"}),
	}
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) IncrementEntriesCreated(category string) {
	if m == nil {
		return
	}
	m.EntriesCreated.WithLabelValues(category).Inc()
}

func (m *Metrics) IncrementDuplicateEntries() {
	if m == nil {
		return
	}
	m.DuplicateEntries.Inc()
}

func (m *Metrics) IncrementPhotoUploadFailures() {
	if m == nil {
		return
	}
	m.PhotoUploadFailures.Inc()
}

func (m *Metrics) SetRealtimeSubscribers(count int) {
	if m == nil {
		return
	}
	m.RealtimeSubscribers.Set(float64(count))
}

func (m *Metrics) IncrementRateLimited(limit string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(limit).Inc()
}
