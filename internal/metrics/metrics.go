// Package metrics records roster run counters for Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/model"
)

// Metrics holds the run collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Records by final outcome: valid, invalid.
	Records *prometheus.CounterVec

	// Rejection reasons by code.
	Rejections *prometheus.CounterVec

	// Valid records by classification: new, existing.
	Classified *prometheus.CounterVec

	// Postal-code lookups by result: found, not_found, error.
	Lookups *prometheus.CounterVec

	// Postal-code lookup latency.
	LookupLatency prometheus.Histogram
}

// New creates the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Records: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_records_total",
			Help: "Validated records by outcome",
		}, []string{"outcome"}),

		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_rejections_total",
			Help: "Rejection reasons attached to invalid records",
		}, []string{"reason"}),

		Classified: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_classified_total",
			Help: "Valid records by classification against the reference system",
		}, []string{"kind"}),

		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_cep_lookups_total",
			Help: "Postal-code lookups by result",
		}, []string{"result"}),

		LookupLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "roster_cep_lookup_duration_seconds",
			Help:    "Duration of postal-code lookups",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveLookup records one postal-code lookup.
func (m *Metrics) ObserveLookup(result string, d time.Duration) {
	if m != nil {
		m.Lookups.WithLabelValues(result).Inc()
		m.LookupLatency.Observe(d.Seconds())
	}
}

// ObserveOutcome records a validated record and its reasons.
func (m *Metrics) ObserveOutcome(o model.Outcome) {
	if m == nil {
		return
	}
	if o.Valid() {
		m.Records.WithLabelValues("valid").Inc()
		return
	}
	m.Records.WithLabelValues("invalid").Inc()
	for _, r := range o.Reasons {
		m.Rejections.WithLabelValues(r.Code()).Inc()
	}
}

// ObserveKind records a classification.
func (m *Metrics) ObserveKind(k model.Kind) {
	if m == nil {
		return
	}
	label := "new"
	if k == model.KindExisting {
		label = "existing"
	}
	m.Classified.WithLabelValues(label).Inc()
}

// WriteTextfile writes the current values in the node exporter textfile
// format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return eris.Wrapf(err, "metrics: write %s", path)
	}
	return nil
}
