// Package metrics defines the Prometheus collectors for the scrape pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Scrape outcomes recorded by ScrapesTotal.
const (
	OutcomeOK          = "ok"
	OutcomeInvalidURL  = "invalid_url"
	OutcomeFetchFailed = "fetch_failed"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ScrapesTotal    *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	FieldsExtracted *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ScrapesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "preview_scrapes_total",
			Help: "Scrape requests by outcome",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "preview_fetch_duration_seconds",
			Help:    "Time spent fetching HTML, by winning engine",
			Buckets: prometheus.DefBuckets,
		}, []string{"engine"}),
		FieldsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "preview_fields_extracted_total",
			Help: "Metadata fields found, by kind",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.ScrapesTotal, m.FetchDuration, m.FieldsExtracted)
	return m
}

func (m *Metrics) ObserveScrape(outcome string) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveFetch(engine string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(engine).Observe(d.Seconds())
}

func (m *Metrics) ObserveField(kind string) {
	if m == nil {
		return
	}
	m.FieldsExtracted.WithLabelValues(kind).Inc()
}
