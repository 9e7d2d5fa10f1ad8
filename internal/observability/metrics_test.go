package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-genui/internal/genui/component"
	"github.com/yungbote/neurobridge-genui/internal/genui/model"
)

func TestFallbackLabelsAreBounded(t *testing.T) {
	m := NewMetrics()
	m.FallbackNode(component.TypeQuiz, "ios")
	m.FallbackNode("made-up", "smart-fridge")
	m.FallbackNode("another", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbackNodes.WithLabelValues("quiz", "ios")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbackNodes.WithLabelValues("unknown", "other")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbackNodes.WithLabelValues("unknown", "unknown")))
}

func TestCountersAndHandler(t *testing.T) {
	m := NewMetrics()
	m.RenderGuard(model.KindCourse, "render")
	m.ExtractStrategy(model.KindQuiz, "outline")
	m.ObserveProduce(model.KindQuiz, 3*time.Millisecond)
	m.ObserveAPI("POST", "/api/genui/produce", "200", 10*time.Millisecond)
	m.CacheLookup("hit")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.renderGuard.WithLabelValues("course", "render")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extractStrategy.WithLabelValues("quiz", "outline")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "genui_produce_duration_seconds_bucket")
	assert.Contains(t, string(body), `genui_tree_cache_lookups_total{result="hit"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.FallbackNode(component.TypeCard, "web")
		m.RenderGuard(model.KindQuiz, "error")
		m.ObserveProduce(model.KindQuiz, time.Second)
		m.ApiInflightInc()
		m.ApiInflightDec()
	})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}
