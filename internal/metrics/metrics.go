package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gotokenize"

// Metrics exposes Prometheus collectors for tokenization and indexing.
type Metrics struct {
	streamsOpened    *prometheus.CounterVec
	tokensEmitted    *prometheus.CounterVec
	analyzeDuration  *prometheus.HistogramVec
	documentsIndexed prometheus.Counter
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
}

// MustNewMetrics constructs a Metrics instance registered with reg.
// Registration errors panic, mirroring promauto.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		streamsOpened: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "analysis",
				Name:      "streams_total",
				Help:      "Token streams consumed, by tokenizer.",
			},
			[]string{"tokenizer"},
		),
		tokensEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "analysis",
				Name:      "tokens_total",
				Help:      "Tokens emitted, by tokenizer.",
			},
			[]string{"tokenizer"},
		),
		analyzeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "analysis",
				Name:      "analyze_duration_seconds",
				Help:      "Time spent tokenizing a single analyze request.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"tokenizer"},
		),
		documentsIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "indexing",
			Name:      "documents_total",
			Help:      "Documents added to the write buffer.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "cache_hits_total",
			Help:      "Analyze requests served from the result cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "cache_misses_total",
			Help:      "Analyze requests that had to tokenize.",
		}),
	}
	reg.MustRegister(
		m.streamsOpened,
		m.tokensEmitted,
		m.analyzeDuration,
		m.documentsIndexed,
		m.cacheHits,
		m.cacheMisses,
	)
	return m
}

// ObserveStream records one consumed stream and the number of tokens it emitted.
// Its signature matches indexing.StreamHook.
func (m *Metrics) ObserveStream(tokenizer string, tokens int) {
	if m == nil {
		return
	}
	m.streamsOpened.WithLabelValues(tokenizer).Inc()
	m.tokensEmitted.WithLabelValues(tokenizer).Add(float64(tokens))
}

// ObserveAnalyze records the latency of an analyze request.
func (m *Metrics) ObserveAnalyze(tokenizer string, d time.Duration) {
	if m == nil {
		return
	}
	m.analyzeDuration.WithLabelValues(tokenizer).Observe(d.Seconds())
}

// DocumentIndexed increments the indexed document counter.
func (m *Metrics) DocumentIndexed() {
	if m == nil {
		return
	}
	m.documentsIndexed.Inc()
}

// CacheHit records an analyze cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// CacheMiss records an analyze cache miss.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// Handler returns an HTTP handler exposing the collectors of g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
