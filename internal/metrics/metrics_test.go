package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

func TestObserveScan(t *testing.T) {
	m := New()
	m.ObserveScan(ir.ScanRecord{Source: "clipboard", Outcome: ir.OutcomeTyped, EventCount: 4})
	m.ObserveScan(ir.ScanRecord{Source: "clipboard", Outcome: ir.OutcomeTyped, EventCount: 2, Unresolved: []string{"{NOPE}"}})
	m.ObserveScan(ir.ScanRecord{Source: "stdin", Outcome: ir.OutcomeNotUnderstood, EventCount: 0})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.scans.WithLabelValues("clipboard", "typed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scans.WithLabelValues("stdin", "not_understood")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.keystrokes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unresolved))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveScan(ir.ScanRecord{Outcome: ir.OutcomeTyped})
	m.ObserveCompile("macro", time.Millisecond)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveCompile("macro", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `vscan_compile_duration_seconds_count{path="macro"} 1`)
}
