package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry          *prometheus.Registry
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   prometheus.Histogram
	RecordsTotal      prometheus.Counter
	DuplicatesTotal   prometheus.Counter
	SeenEvictionTotal prometheus.Counter
	ErrorsTotal       *prometheus.CounterVec
	KeywordsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_requests_total",
			Help: "Total page retrievals issued by the scraper.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_request_duration_seconds",
			Help:    "Latency of search and detail page retrievals.",
			Buckets: prometheus.DefBuckets,
		},
	)
	records := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_records_extracted_total",
			Help: "Total number of book records extracted.",
		},
	)
	duplicates := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_duplicate_urls_total",
			Help: "Candidate URLs skipped because they were already dispatched.",
		},
	)
	evictions := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_seen_set_evictions_total",
			Help: "URLs evicted from the bounded seen set.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of scraper errors by type.",
		},
		[]string{"error_type"},
	)
	keywords := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_keywords_total",
			Help: "Keywords crawled by final state.",
		},
		[]string{"state"},
	)

	registry.MustRegister(requests, requestDuration, records, duplicates, evictions, errorsTotal, keywords)

	return &Metrics{
		Registry:          registry,
		RequestsTotal:     requests,
		RequestDuration:   requestDuration,
		RecordsTotal:      records,
		DuplicatesTotal:   duplicates,
		SeenEvictionTotal: evictions,
		ErrorsTotal:       errorsTotal,
		KeywordsTotal:     keywords,
	}
}

// IncRequest increments the requests total counter.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records a retrieval duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncRecords increments the extracted records counter.
func (m *Metrics) IncRecords() {
	if m == nil {
		return
	}
	m.RecordsTotal.Inc()
}

// IncDuplicates increments the duplicate URL counter.
func (m *Metrics) IncDuplicates() {
	if m == nil {
		return
	}
	m.DuplicatesTotal.Inc()
}

// IncEvictions increments the seen set eviction counter.
func (m *Metrics) IncEvictions() {
	if m == nil {
		return
	}
	m.SeenEvictionTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncKeyword increments the keyword counter for a final state.
func (m *Metrics) IncKeyword(state string) {
	if m == nil {
		return
	}
	m.KeywordsTotal.WithLabelValues(state).Inc()
}
