// Package metrics exposes the Prometheus counters and gauges the
// share index, search engine and filelist subsystems report through,
// plus the HTTP handler that serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShareStats holds every counter/gauge this repo's components report.
// A nil *ShareStats is always safe to call methods on (every method
// guards against it), so callers that run with metrics disabled pass
// nil rather than branching at every call site.
//
// Grounded on the teacher's pkg/metrics/prometheus package (promauto
// registration against a dedicated registry, one struct per
// subsystem), simplified to direct promauto registration: the
// teacher's own indirection (metrics.IsEnabled/metrics.GetRegistry,
// constructor functions registered across a package boundary to dodge
// an import cycle) referenced functions that do not exist anywhere in
// the teacher's own tree, so it was never working code to imitate.
type ShareStats struct {
	registry *prometheus.Registry

	searchesTotal       *prometheus.CounterVec
	searchResultsTotal  prometheus.Counter
	searchDuration      prometheus.Histogram
	indexedFiles        prometheus.Gauge
	indexedBytes        prometheus.Gauge
	indexDuration       prometheus.Histogram
	filelistGenerations *prometheus.CounterVec
	filelistCacheHits   prometheus.Counter
	filelistCacheMisses prometheus.Counter
}

// NewShareStats creates a ShareStats registered against a fresh
// registry, for exposition via Handler.
func NewShareStats() *ShareStats {
	reg := prometheus.NewRegistry()

	return &ShareStats{
		registry: reg,
		searchesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sharecore_searches_total",
			Help: "Total number of search queries run, by item type filter.",
		}, []string{"item_type"}),
		searchResultsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "sharecore_search_results_total",
			Help: "Total number of search hits returned across every query.",
		}),
		searchDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "sharecore_search_duration_seconds",
			Help:    "Duration of a tree-wide search query.",
			Buckets: prometheus.DefBuckets,
		}),
		indexedFiles: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "sharecore_indexed_files",
			Help: "Number of files currently present in the share index.",
		}),
		indexedBytes: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "sharecore_indexed_bytes",
			Help: "Total size in bytes of every file currently in the share index.",
		}),
		indexDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "sharecore_index_duration_seconds",
			Help:    "Duration of a full share root scan.",
			Buckets: prometheus.DefBuckets,
		}),
		filelistGenerations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sharecore_filelist_generations_total",
			Help: "Total number of filelist XML documents generated, by recursion mode.",
		}, []string{"recursive"}),
		filelistCacheHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "sharecore_filelist_cache_hits_total",
			Help: "Total number of filelist requests served from the document cache.",
		}),
		filelistCacheMisses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "sharecore_filelist_cache_misses_total",
			Help: "Total number of filelist requests that required regeneration.",
		}),
	}
}

// Handler returns the HTTP handler serving this ShareStats' registry
// in the Prometheus exposition format.
func (s *ShareStats) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// ObserveSearch records one search query's item-type filter, result
// count and wall-clock duration.
func (s *ShareStats) ObserveSearch(itemType string, resultCount int, seconds float64) {
	if s == nil {
		return
	}
	s.searchesTotal.WithLabelValues(itemType).Inc()
	s.searchResultsTotal.Add(float64(resultCount))
	s.searchDuration.Observe(seconds)
}

// SetIndexSize records the current total file count and byte size of
// the share index after a scan.
func (s *ShareStats) SetIndexSize(files int, bytes int64) {
	if s == nil {
		return
	}
	s.indexedFiles.Set(float64(files))
	s.indexedBytes.Set(float64(bytes))
}

// ObserveIndex records one full share root scan's duration.
func (s *ShareStats) ObserveIndex(seconds float64) {
	if s == nil {
		return
	}
	s.indexDuration.Observe(seconds)
}

// ObserveFilelistGeneration records one filelist document build.
func (s *ShareStats) ObserveFilelistGeneration(recursive bool) {
	if s == nil {
		return
	}
	label := "false"
	if recursive {
		label = "true"
	}
	s.filelistGenerations.WithLabelValues(label).Inc()
}

// ObserveFilelistCacheHit records whether a filelist request was
// served from the document cache.
func (s *ShareStats) ObserveFilelistCacheHit(hit bool) {
	if s == nil {
		return
	}
	if hit {
		s.filelistCacheHits.Inc()
		return
	}
	s.filelistCacheMisses.Inc()
}
