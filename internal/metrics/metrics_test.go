package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStream(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())

	m.ObserveStream("whitespace_punc", 4)
	m.ObserveStream("whitespace_punc", 2)
	m.ObserveStream("keyword", 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.streamsOpened.WithLabelValues("whitespace_punc")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.tokensEmitted.WithLabelValues("whitespace_punc")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tokensEmitted.WithLabelValues("keyword")))
}

func TestCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	m.DocumentIndexed()
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.ObserveAnalyze("keyword", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentsIndexed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheMisses))
	assert.Equal(t, 1, testutil.CollectAndCount(m.analyzeDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStream("x", 1)
		m.ObserveAnalyze("x", time.Second)
		m.DocumentIndexed()
		m.CacheHit()
		m.CacheMiss()
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)
	m.ObserveStream("whitespace_punc", 3)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `gotokenize_analysis_tokens_total{tokenizer="whitespace_punc"} 3`)
}

func TestMustNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNewMetrics(reg)
	assert.Panics(t, func() { MustNewMetrics(reg) })
}
