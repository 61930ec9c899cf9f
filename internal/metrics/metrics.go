// Package metrics는 스캐너의 Prometheus 지표와 /metrics, /healthz 서버를 제공합니다.
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// 평가 결과 라벨
const (
	OutcomeSignal         = "signal"
	OutcomeNotEnoughData  = "not-enough-data"
	OutcomeNoConfirmation = "no-confirmation"
	OutcomeError          = "error"
)

// Metrics는 스캐너 지표 모음입니다. nil 포인터에 대한 메서드 호출은 아무 것도 하지 않습니다
type Metrics struct {
	ScansTotal       prometheus.Counter
	ScanDuration     prometheus.Histogram
	LastScanTime     prometheus.Gauge
	EvaluationsTotal *prometheus.CounterVec // labels: outcome
	SignalsTotal     *prometheus.CounterVec // labels: asset, direction
	FetchErrorsTotal *prometheus.CounterVec // labels: asset
	AlertsTotal      *prometheus.CounterVec // labels: result=sent|failed
}

// New는 지표를 생성해 reg에 등록합니다
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanner_runs_total",
			Help: "Total completed scan runs",
		}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scanner_run_duration_seconds",
			Help:    "Duration of a full scan run",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		LastScanTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scanner_last_run_timestamp_seconds",
			Help: "Unix time of the last completed scan run",
		}),
		EvaluationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_evaluations_total",
			Help: "Signal evaluations by outcome",
		}, []string{"outcome"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_signals_total",
			Help: "Confirmed signals by asset class and direction",
		}, []string{"asset", "direction"}),
		FetchErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_fetch_errors_total",
			Help: "Candle fetch failures by asset class",
		}, []string{"asset"}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_alerts_total",
			Help: "Alert deliveries by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.ScansTotal,
		m.ScanDuration,
		m.LastScanTime,
		m.EvaluationsTotal,
		m.SignalsTotal,
		m.FetchErrorsTotal,
		m.AlertsTotal,
	)
	return m
}

// ScanCompleted는 스캔 한 회 완료를 기록합니다
func (m *Metrics) ScanCompleted(d time.Duration) {
	if m == nil {
		return
	}
	m.ScansTotal.Inc()
	m.ScanDuration.Observe(d.Seconds())
	m.LastScanTime.SetToCurrentTime()
}

// Evaluation은 평가 결과를 기록합니다
func (m *Metrics) Evaluation(outcome string) {
	if m == nil {
		return
	}
	m.EvaluationsTotal.WithLabelValues(outcome).Inc()
}

// Signal은 확정된 시그널을 기록합니다
func (m *Metrics) Signal(asset, direction string) {
	if m == nil {
		return
	}
	m.SignalsTotal.WithLabelValues(asset, direction).Inc()
}

// FetchError는 캔들 조회 실패를 기록합니다
func (m *Metrics) FetchError(asset string) {
	if m == nil {
		return
	}
	m.FetchErrorsTotal.WithLabelValues(asset).Inc()
}

// Alert는 알림 전송 결과를 기록합니다
func (m *Metrics) Alert(sent bool) {
	if m == nil {
		return
	}
	result := "sent"
	if !sent {
		result = "failed"
	}
	m.AlertsTotal.WithLabelValues(result).Inc()
}

// HealthStatus는 마지막 스캔 상태입니다
type HealthStatus struct {
	mu        sync.RWMutex
	StartedAt time.Time
	LastScan  time.Time
	LastError string
	Alerts    int
}

// NewHealthStatus는 새로운 상태 객체를 생성합니다
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{StartedAt: time.Now()}
}

// SetScanResult는 스캔 결과를 기록합니다
func (h *HealthStatus) SetScanResult(at time.Time, alerts int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastScan = at
	h.Alerts = alerts
	h.LastError = ""
	if err != nil {
		h.LastError = err.Error()
	}
}

// ServeHTTP는 상태를 JSON으로 응답합니다. 마지막 스캔이 실패했으면 503입니다
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status, code := "healthy", http.StatusOK
	if h.LastError != "" {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	lastScan := ""
	if !h.LastScan.IsZero() {
		lastScan = h.LastScan.UTC().Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(struct {
		Status    string `json:"status"`
		Uptime    string `json:"uptime"`
		LastScan  string `json:"last_scan"`
		LastError string `json:"last_error,omitempty"`
		Alerts    int    `json:"alerts"`
	}{
		Status:    status,
		Uptime:    time.Since(h.StartedAt).Round(time.Second).String(),
		LastScan:  lastScan,
		LastError: h.LastError,
		Alerts:    h.Alerts,
	})
}

// Server는 /metrics와 /healthz를 제공하는 HTTP 서버입니다
type Server struct {
	addr   string
	srv    *http.Server
	logger zerolog.Logger
}

// NewServer는 지표 및 상태 서버를 생성합니다
func NewServer(addr string, gatherer prometheus.Gatherer, health *HealthStatus, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", health)

	return &Server{
		addr:   addr,
		logger: logger,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler는 서버의 라우터를 반환합니다
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start는 고루틴에서 HTTP 서버를 실행합니다
func (s *Server) Start() {
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("지표 서버 시작")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("지표 서버 에러")
		}
	}()
}

// Stop은 서버를 종료합니다
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
