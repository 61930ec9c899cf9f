// Package scanner는 자산 그룹 × 타임프레임 × 심볼을 순회하며 시그널을 찾고 알림을 보냅니다.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/assist-by/phoenix-scanner/internal/analysis/signal"
	"github.com/assist-by/phoenix-scanner/internal/domain"
	"github.com/assist-by/phoenix-scanner/internal/exchange"
	"github.com/assist-by/phoenix-scanner/internal/metrics"
	"github.com/assist-by/phoenix-scanner/internal/notification"
	"github.com/assist-by/phoenix-scanner/internal/position"
)

// Group은 같은 데이터 제공자를 쓰는 자산 그룹입니다
type Group struct {
	Asset    domain.AssetClass
	Symbols  []string
	Provider exchange.Provider
}

// Report는 한 번의 스캔 실행 결과입니다
type Report struct {
	StartedAt time.Time
	Duration  time.Duration
	Alerts    []domain.Alert
	Lines     []string // 포맷된 알림 (Alerts와 같은 순서)
	Sent      int
	Failed    int
}

// Scanner는 시그널 스캐너입니다
type Scanner struct {
	groups        []Group
	timeframes    []domain.TimeInterval
	candleLimit   int
	workers       int
	evaluator     *signal.Evaluator
	adjust        signal.ConfidenceAdjuster
	notifier      notification.Notifier
	formatter     notification.Formatter
	alertsEnabled bool
	alertInterval time.Duration
	logger        zerolog.Logger
	metrics       *metrics.Metrics

	mu sync.Mutex // Run은 한 번에 하나만 실행
}

// Option은 스캐너 옵션을 정의합니다
type Option func(*Scanner)

// WithTimeframes는 스캔할 타임프레임을 설정합니다
func WithTimeframes(tfs []domain.TimeInterval) Option {
	return func(s *Scanner) {
		s.timeframes = tfs
	}
}

// WithCandleLimit은 캔들 데이터 조회 개수를 설정합니다
func WithCandleLimit(limit int) Option {
	return func(s *Scanner) {
		s.candleLimit = limit
	}
}

// WithWorkers는 동시에 처리할 심볼 수를 설정합니다
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithEvaluator는 시그널 평가기를 설정합니다
func WithEvaluator(e *signal.Evaluator) Option {
	return func(s *Scanner) {
		s.evaluator = e
	}
}

// WithAdjuster는 신뢰도 보정 훅을 설정합니다
func WithAdjuster(adjust signal.ConfidenceAdjuster) Option {
	return func(s *Scanner) {
		if adjust != nil {
			s.adjust = adjust
		}
	}
}

// WithNotifier는 알림 채널을 설정합니다
func WithNotifier(n notification.Notifier) Option {
	return func(s *Scanner) {
		s.notifier = n
	}
}

// WithFormatter는 알림 형식을 설정합니다
func WithFormatter(f notification.Formatter) Option {
	return func(s *Scanner) {
		s.formatter = f
	}
}

// WithAlerts는 알림 전송 여부를 설정합니다. false이면 로그로만 출력합니다
func WithAlerts(enabled bool) Option {
	return func(s *Scanner) {
		s.alertsEnabled = enabled
	}
}

// WithAlertInterval은 알림 사이의 최소 간격을 설정합니다
func WithAlertInterval(d time.Duration) Option {
	return func(s *Scanner) {
		s.alertInterval = d
	}
}

// WithLogger는 로거를 설정합니다
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithMetrics는 지표 수집기를 설정합니다
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scanner) {
		s.metrics = m
	}
}

// NewScanner는 새로운 스캐너를 생성합니다
func NewScanner(groups []Group, opts ...Option) *Scanner {
	s := &Scanner{
		groups:        groups,
		timeframes:    domain.DefaultTimeframes,
		candleLimit:   300,
		workers:       1,
		evaluator:     signal.NewEvaluator(signal.DefaultConfig()),
		adjust:        signal.Identity,
		formatter:     notification.Formatter{Mode: notification.ModeShort},
		alertsEnabled: true,
		alertInterval: 400 * time.Millisecond,
		logger:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.notifier == nil {
		s.notifier = notification.NewConsoleNotifier(s.logger)
	}
	return s
}

// Run은 모든 그룹을 스캔한 뒤 발견된 알림을 순서대로 전송합니다.
// 에러는 컨텍스트가 취소된 경우에만 반환됩니다.
func (s *Scanner) Run(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &Report{StartedAt: time.Now()}

	for _, g := range s.groups {
		alerts, err := s.ScanGroup(ctx, g)
		report.Alerts = append(report.Alerts, alerts...)
		if err != nil {
			return report, err
		}
	}

	if len(report.Alerts) == 0 {
		s.logger.Info().Msg("이번 실행에서 시그널 없음")
	} else if err := s.dispatch(ctx, report); err != nil {
		return report, err
	}

	report.Duration = time.Since(report.StartedAt)
	s.metrics.ScanCompleted(report.Duration)
	s.logger.Info().
		Int("alerts", len(report.Alerts)).
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("스캔 완료")
	return report, nil
}

// dispatch는 알림을 포맷해 로그로 남기고, 활성화된 경우 alertInterval 간격으로 전송합니다
func (s *Scanner) dispatch(ctx context.Context, report *Report) error {
	limit := rate.Inf
	if s.alertInterval > 0 {
		limit = rate.Every(s.alertInterval)
	}
	limiter := rate.NewLimiter(limit, 1)

	for _, alert := range report.Alerts {
		text := s.formatter.Format(alert)
		report.Lines = append(report.Lines, text)
		s.logger.Info().Msg("ALERT: " + text)

		if !s.alertsEnabled {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		if err := notification.Deliver(ctx, s.notifier, alert, text); err != nil {
			report.Failed++
			s.metrics.Alert(false)
			s.logger.Error().Err(err).Str("symbol", alert.Symbol).Msg("알림 전송 실패")
			continue
		}
		report.Sent++
		s.metrics.Alert(true)
	}
	return nil
}

// item은 스캔 단위 (타임프레임, 심볼) 입니다
type item struct {
	timeframe domain.TimeInterval
	symbol    string
}

// outcome은 item 하나의 처리 결과입니다
type outcome struct {
	alert *domain.Alert
	err   error
}

// ScanGroup은 타임프레임 → 심볼 순서로 그룹을 스캔합니다.
// 개별 실패는 로그만 남기고 건너뛰며, 제공자가 설정되지 않았으면(ErrNotConfigured)
// 그 시점까지의 알림만 남기고 그룹 스캔을 중단합니다.
func (s *Scanner) ScanGroup(ctx context.Context, g Group) ([]domain.Alert, error) {
	if g.Provider == nil || len(g.Symbols) == 0 {
		return nil, nil
	}

	items := make([]item, 0, len(s.timeframes)*len(g.Symbols))
	for _, tf := range s.timeframes {
		for _, sym := range g.Symbols {
			items = append(items, item{timeframe: tf, symbol: sym})
		}
	}

	var outcomes []outcome
	if s.workers <= 1 {
		outcomes = s.scanSequential(ctx, g, items)
	} else {
		outcomes = s.scanParallel(ctx, g, items)
	}

	var alerts []domain.Alert
	for i, o := range outcomes {
		it := items[i]
		switch {
		case o.err == nil:
			if o.alert != nil {
				alerts = append(alerts, *o.alert)
			}
		case errors.Is(o.err, exchange.ErrNotConfigured):
			s.logger.Warn().
				Err(o.err).
				Str("asset", string(g.Asset)).
				Str("symbol", it.symbol).
				Msg("데이터 제공자 미설정, 그룹 스캔 중단")
			return alerts, nil
		case ctx.Err() != nil:
			return alerts, ctx.Err()
		default:
			s.logger.Error().
				Err(o.err).
				Str("asset", string(g.Asset)).
				Str("symbol", it.symbol).
				Str("timeframe", string(it.timeframe)).
				Msg("스캔 실패")
		}
	}

	if err := ctx.Err(); err != nil {
		return alerts, err
	}
	return alerts, nil
}

// scanSequential은 item을 하나씩 처리하고 ErrNotConfigured나 취소 시 멈춥니다
func (s *Scanner) scanSequential(ctx context.Context, g Group, items []item) []outcome {
	outcomes := make([]outcome, 0, len(items))
	for _, it := range items {
		if ctx.Err() != nil {
			break
		}
		alert, err := s.scanItem(ctx, g, it)
		outcomes = append(outcomes, outcome{alert: alert, err: err})
		if errors.Is(err, exchange.ErrNotConfigured) {
			break
		}
	}
	return outcomes
}

// scanParallel은 workers개의 고루틴으로 item을 처리합니다. 결과는 item 순서를 유지합니다.
// ErrNotConfigured가 나오면 그보다 뒤의 item은 새로 시작하지 않습니다.
func (s *Scanner) scanParallel(ctx context.Context, g Group, items []item) []outcome {
	outcomes := make([]outcome, len(items))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	var stopAt atomic.Int64
	stopAt.Store(int64(len(items)))

	for i, it := range items {
		if int64(i) > stopAt.Load() {
			break
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			outcomes[i] = outcome{err: ctx.Err()}
			continue
		}

		wg.Add(1)
		go func(i int, it item) {
			defer wg.Done()
			defer func() { <-sem }()

			alert, err := s.scanItem(ctx, g, it)
			outcomes[i] = outcome{alert: alert, err: err}
			if errors.Is(err, exchange.ErrNotConfigured) {
				for {
					cur := stopAt.Load()
					if int64(i) >= cur || stopAt.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
			}
		}(i, it)
	}
	wg.Wait()
	return outcomes
}

// scanItem은 캔들 조회 → 평가 → 신뢰도 보정 → 목표가 계산을 수행합니다
func (s *Scanner) scanItem(ctx context.Context, g Group, it item) (*domain.Alert, error) {
	candles, err := g.Provider.GetKlines(ctx, it.symbol, it.timeframe, s.candleLimit)
	if err != nil {
		if !errors.Is(err, exchange.ErrNotConfigured) {
			s.metrics.FetchError(string(g.Asset))
		}
		return nil, fmt.Errorf("%s %s 캔들 조회 실패: %w", it.symbol, it.timeframe, err)
	}

	res, err := s.evaluator.Evaluate(candles)
	if err != nil {
		s.metrics.Evaluation(metrics.OutcomeError)
		return nil, fmt.Errorf("%s %s 시그널 평가 실패: %w", it.symbol, it.timeframe, err)
	}

	if !res.HasSignal() {
		s.metrics.Evaluation(string(res.Reason))
		s.logger.Debug().
			Str("symbol", it.symbol).
			Str("timeframe", string(it.timeframe)).
			Str("reason", string(res.Reason)).
			Msg("시그널 없음")
		return nil, nil
	}

	sig := res.Signal
	s.metrics.Evaluation(metrics.OutcomeSignal)
	s.metrics.Signal(string(g.Asset), sig.Direction.String())

	return &domain.Alert{
		Asset:      g.Asset,
		Symbol:     it.symbol,
		Timeframe:  it.timeframe,
		Direction:  sig.Direction,
		Price:      sig.ReferenceClose,
		Levels:     position.CalculateLevels(sig.ReferenceClose, sig.ATR, sig.Direction),
		Confidence: s.adjust(sig.Confidence),
		Detail:     sig.Detail,
	}, nil
}
