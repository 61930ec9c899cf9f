package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Evaluation(OutcomeSignal)
	m.Evaluation(OutcomeSignal)
	m.Evaluation(OutcomeNoConfirmation)
	m.Signal("CRYPTO", "BUY")
	m.FetchError("STOCK")
	m.Alert(true)
	m.Alert(false)
	m.ScanCompleted(2 * time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues(OutcomeSignal)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues(OutcomeNoConfirmation)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignalsTotal.WithLabelValues("CRYPTO", "BUY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchErrorsTotal.WithLabelValues("STOCK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AlertsTotal.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AlertsTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal))
	assert.Positive(t, testutil.ToFloat64(m.LastScanTime))

	count, err := testutil.GatherAndCount(reg, "scanner_run_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Evaluation(OutcomeError)
		m.Signal("CRYPTO", "SELL")
		m.FetchError("INDEX")
		m.Alert(true)
		m.ScanCompleted(time.Second)
	})
}

func TestServer_Routes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Signal("CRYPTO", "SELL")

	health := NewHealthStatus()
	srv := NewServer(":0", reg, health, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `scanner_signals_total{asset="CRYPTO",direction="SELL"} 1`)

	health.SetScanResult(time.Now(), 3, nil)
	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	health.SetScanResult(time.Now(), 0, errors.New("boom"))
	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
