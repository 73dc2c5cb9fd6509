package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/recordsheet/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistered(t *testing.T) (*PrometheusCollector, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	pc := NewPrometheusCollector("recordsheet")
	require.NoError(t, pc.Register(registry))
	return pc, registry
}

func TestRegisterTwiceFails(t *testing.T) {
	pc, registry := newRegistered(t)
	assert.Error(t, pc.Register(registry))
}

func TestRecordPosting(t *testing.T) {
	pc, _ := newRegistered(t)

	pc.RecordPosting(metrics.OutcomeCommitted, 2, 3*time.Millisecond)
	pc.RecordPosting(metrics.OutcomeCommitted, 3, time.Millisecond)
	pc.RecordPosting(metrics.OutcomeUnbalanced, 2, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(pc.postings.WithLabelValues(metrics.OutcomeCommitted)))
	assert.Equal(t, 5.0, testutil.ToFloat64(pc.postingLines.WithLabelValues(metrics.OutcomeCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.postings.WithLabelValues(metrics.OutcomeUnbalanced)))
}

func TestRecordImport(t *testing.T) {
	pc, _ := newRegistered(t)

	pc.RecordImport("ofx", metrics.ImportCounts{Total: 5, Inserted: 3, Duplicates: 2}, time.Millisecond)
	pc.RecordImportError("ofx")

	assert.Equal(t, 3.0, testutil.ToFloat64(pc.importRecords.WithLabelValues("ofx", "inserted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(pc.importRecords.WithLabelValues("ofx", "duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.importErrors.WithLabelValues("ofx")))
}

func TestRecordCircuitState(t *testing.T) {
	pc, _ := newRegistered(t)

	pc.RecordCircuitState("store", metrics.CircuitOpen)
	pc.RecordCircuitState("store", metrics.CircuitHalfOpen)

	assert.Equal(t, 2.0, testutil.ToFloat64(pc.circuitState.WithLabelValues("store")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pc.circuitOpens.WithLabelValues("store")))
}

func TestHandlerServesMetrics(t *testing.T) {
	pc, registry := newRegistered(t)
	pc.RecordImportError("amazon")

	rec := httptest.NewRecorder()
	Handler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `recordsheet_import_errors_total{format="amazon"} 1`)
}
