package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for screening, imports and the HTTP API. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Screening recommendations frozen by completing a screening
	Recommendations *prometheus.CounterVec

	// Overall scores of completed screenings
	Scores prometheus.Histogram

	// Manager decisions recorded on screenings
	Decisions *prometheus.CounterVec

	// Adverse action notices by result
	AdverseActions *prometheus.CounterVec

	// Rows read from CSV imports by kind and outcome
	ImportedRows *prometheus.CounterVec

	// Dashboard cache lookups
	CacheLookups *prometheus.CounterVec

	RequestDuration *prometheus.HistogramVec
}

// New registers every metric with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Recommendations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tenantry_screening_recommendations_total",
			Help: "Completed screenings by recommendation",
		}, []string{"recommendation"}),

		Scores: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tenantry_screening_score",
			Help:    "Overall score of completed screenings",
			Buckets: []float64{20, 40, 60, 75, 90, 100},
		}),

		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tenantry_screening_decisions_total",
			Help: "Screening decisions recorded by managers",
		}, []string{"decision"}),

		AdverseActions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tenantry_adverse_action_notices_total",
			Help: "Adverse action notices by result",
		}, []string{"result"}), // result: "sent", "failed"

		ImportedRows: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tenantry_import_rows_total",
			Help: "CSV rows processed by import kind and outcome",
		}, []string{"kind", "outcome"}), // outcome: "created", "skipped", "failed"

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tenantry_cache_lookups_total",
			Help: "Cache lookups by result",
		}, []string{"result"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tenantry_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// ObserveRecommendation records a completed screening's outcome.
func (m *Metrics) ObserveRecommendation(recommendation string, score int) {
	if m != nil {
		m.Recommendations.WithLabelValues(recommendation).Inc()
		m.Scores.Observe(float64(score))
	}
}

func (m *Metrics) IncrementDecision(decision string) {
	if m != nil {
		m.Decisions.WithLabelValues(decision).Inc()
	}
}

// IncrementAdverseAction records whether a notice went out.
func (m *Metrics) IncrementAdverseAction(sent bool) {
	if m == nil {
		return
	}

	result := "sent"
	if !sent {
		result = "failed"
	}

	m.AdverseActions.WithLabelValues(result).Inc()
}

func (m *Metrics) AddImportedRows(kind, outcome string, n int) {
	if m != nil && n > 0 {
		m.ImportedRows.WithLabelValues(kind, outcome).Add(float64(n))
	}
}

func (m *Metrics) IncrementCacheLookup(hit bool) {
	if m == nil {
		return
	}

	result := "hit"
	if !hit {
		result = "miss"
	}

	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveRequest records a served HTTP request. route is the matched route
// pattern, not the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
	}
}
