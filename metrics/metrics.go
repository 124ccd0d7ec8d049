// Package metrics exposes the Prometheus counters and gauges spec.md's
// ambient observability stack calls for: cache hit/miss, download
// success/failure, and fallback substitutions, per SPEC_FULL.md §4.12.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry bundles every metric the pipeline emits. Construct one with
// New; cmd/goseis holds it and records download and fallback outcomes
// through it. The zero value is not usable.
type Registry struct {
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	DownloadSuccess prometheus.Counter
	DownloadFailure prometheus.Counter

	StationFallbackSubstitutions prometheus.Counter
	FailedStationsGauge          prometheus.Gauge
}

// New registers and returns a fresh metric set against the given
// registerer (pass prometheus.DefaultRegisterer in production, a fresh
// prometheus.NewRegistry() in tests to avoid duplicate-registration
// panics across test runs).
func New(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "goseis_cache_hits_total",
			Help: "Cache hits, labelled by cache name.",
		}, []string{"cache"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "goseis_cache_misses_total",
			Help: "Cache misses, labelled by cache name.",
		}, []string{"cache"}),
		DownloadSuccess: factory.NewCounter(prometheus.CounterOpts{
			Name: "goseis_waveform_downloads_success_total",
			Help: "Successful waveform acquisitions.",
		}),
		DownloadFailure: factory.NewCounter(prometheus.CounterOpts{
			Name: "goseis_waveform_downloads_failure_total",
			Help: "Waveform acquisitions that found no usable data.",
		}),
		StationFallbackSubstitutions: factory.NewCounter(prometheus.CounterOpts{
			Name: "goseis_station_fallback_substitutions_total",
			Help: "Times a failed station was replaced by the next-best candidate.",
		}),
		FailedStationsGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "goseis_failed_stations",
			Help: "Current size of the session's failed-stations set.",
		}),
	}
}

// ObserveCache records a cache lookup outcome for the named cache.
func (r *Registry) ObserveCache(cacheName string, hit bool) {
	if hit {
		r.CacheHits.WithLabelValues(cacheName).Inc()
	} else {
		r.CacheMisses.WithLabelValues(cacheName).Inc()
	}
}

// ObserveDownload records a waveform acquisition outcome.
func (r *Registry) ObserveDownload(success bool) {
	if success {
		r.DownloadSuccess.Inc()
	} else {
		r.DownloadFailure.Inc()
	}
}

// ObserveFallback records that a failed station was substituted and
// updates the failed-stations gauge to the given current count.
func (r *Registry) ObserveFallback(failedCount int) {
	r.StationFallbackSubstitutions.Inc()
	r.FailedStationsGauge.Set(float64(failedCount))
}
