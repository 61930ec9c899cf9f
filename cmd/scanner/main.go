package main

import (
	"context"
	"flag"
	"os"
	osSignal "os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/assist-by/phoenix-scanner/internal/analysis/signal"
	"github.com/assist-by/phoenix-scanner/internal/config"
	"github.com/assist-by/phoenix-scanner/internal/domain"
	"github.com/assist-by/phoenix-scanner/internal/exchange/bybit"
	"github.com/assist-by/phoenix-scanner/internal/exchange/upstox"
	"github.com/assist-by/phoenix-scanner/internal/logger"
	"github.com/assist-by/phoenix-scanner/internal/metrics"
	"github.com/assist-by/phoenix-scanner/internal/notification"
	"github.com/assist-by/phoenix-scanner/internal/notification/discord"
	"github.com/assist-by/phoenix-scanner/internal/notification/telegram"
	"github.com/assist-by/phoenix-scanner/internal/scanner"
	"github.com/assist-by/phoenix-scanner/internal/scheduler"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 명령줄 플래그 정의
	daemonFlag := flag.Bool("daemon", false, "FETCH_INTERVAL마다 반복 실행")
	envFlag := flag.String("env", ".env", ".env 파일 경로")

	// 플래그 파싱
	flag.Parse()

	// 설정 로드
	cfg, err := config.LoadConfig(*envFlag)
	if err != nil {
		bootLog := logger.New("info", true)
		bootLog.Error().Err(err).Msg("설정 로드 실패")
		return 1
	}

	// 로그 설정
	log := logger.New(cfg.App.LogLevel, cfg.App.LogPretty)
	if cfg.EnvFileMissing {
		log.Warn().Str("path", *envFlag).Msg(".env 파일이 없어 환경변수만 사용합니다")
	}
	log.Info().Msg("=== 다중 확인 시그널 스캐너 시작 ===")

	// 시그널 처리
	ctx, stop := osSignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 지표 설정
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	health := metrics.NewHealthStatus()
	if cfg.App.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.App.MetricsAddr, reg, health, log)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("지표 서버 종료 실패")
			}
		}()
	}

	// 데이터 제공자 생성
	bybitClient := bybit.NewClient(
		bybit.WithBaseURL(cfg.Bybit.BaseURL),
		bybit.WithTimeout(cfg.Bybit.Timeout),
		bybit.WithMaxRetries(cfg.Bybit.MaxRetries),
		bybit.WithRateLimit(cfg.Bybit.RequestsPerSec),
		bybit.WithLogger(log.With().Str("component", "bybit").Logger()),
	)
	upstoxClient := upstox.NewClient(upstox.Credentials{
		APIKey:      cfg.Upstox.APIKey,
		APISecret:   cfg.Upstox.APISecret,
		AccessToken: cfg.Upstox.AccessToken,
	})

	groups := []scanner.Group{
		{Asset: domain.Crypto, Symbols: cfg.Scanner.CryptoSymbols, Provider: bybitClient},
		{Asset: domain.Stock, Symbols: cfg.Scanner.StockSymbols, Provider: upstoxClient},
		{Asset: domain.Index, Symbols: cfg.Scanner.IndexSymbols, Provider: upstoxClient},
	}

	s := scanner.NewScanner(groups,
		scanner.WithTimeframes(cfg.TimeIntervals()),
		scanner.WithCandleLimit(cfg.Scanner.CandlesLimit),
		scanner.WithWorkers(cfg.Scanner.Workers),
		scanner.WithEvaluator(signal.NewEvaluator(signal.DefaultConfig())),
		scanner.WithAdjuster(signal.Offset(cfg.Alert.ConfidenceBoost)),
		scanner.WithNotifier(buildNotifier(cfg, log)),
		scanner.WithFormatter(notification.Formatter{
			Mode:               notification.Mode(cfg.Alert.Mode),
			ConfidenceDecimals: cfg.Alert.ConfidenceDecimals,
		}),
		scanner.WithAlerts(cfg.Alert.Enabled),
		scanner.WithAlertInterval(cfg.Alert.Interval),
		scanner.WithLogger(log),
		scanner.WithMetrics(m),
	)
	task := scanner.NewTask(s, health)

	if !*daemonFlag {
		if err := task.Execute(ctx); err != nil {
			log.Error().Err(err).Msg("스캔 실행 실패")
			return 1
		}
		return 0
	}

	// 스케줄러 생성 (fetchInterval)
	sched := scheduler.NewScheduler(cfg.Scanner.FetchInterval, task,
		scheduler.WithRunOnStart(true),
		scheduler.WithLogger(log.With().Str("component", "scheduler").Logger()),
	)

	// 스케줄러 시작
	if err := sched.Start(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("스케줄러 실행 중 에러 발생")
	}

	log.Info().Msg("프로그램을 종료합니다.")
	return 0
}

// buildNotifier는 설정된 알림 채널을 묶습니다. 아무 것도 없으면 콘솔로 출력합니다
func buildNotifier(cfg *config.Config, log zerolog.Logger) notification.Notifier {
	var sinks notification.Multi

	if cfg.TelegramConfigured() {
		tg, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Error().Err(err).Msg("텔레그램 설정 오류, 텔레그램 알림 비활성화")
		} else {
			sinks = append(sinks, tg)
		}
	}

	if cfg.Discord.SignalWebhook != "" {
		sinks = append(sinks, discord.NewClient(cfg.Discord.SignalWebhook, discord.WithTimeout(10*time.Second)))
	}

	if len(sinks) == 0 {
		log.Warn().Msg("알림 채널이 설정되지 않아 콘솔로 출력합니다")
		return notification.NewConsoleNotifier(log)
	}
	return sinks
}
