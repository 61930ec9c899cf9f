package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/assist-by/phoenix-scanner/internal/domain"
	"github.com/assist-by/phoenix-scanner/internal/notification"
)

type Config struct {
	// 스캔 대상 설정
	Scanner struct {
		Timeframes    []string      `envconfig:"TIMEFRAMES" default:"5m,15m,1h,4h,1d"`
		CryptoSymbols []string      `envconfig:"CRYPTO_SYMBOLS" default:"BTCUSDT,ETHUSDT,BNBUSDT,SOLUSDT,XRPUSDT,DOGEUSDT,ADAUSDT,MATICUSDT,DOTUSDT,LTCUSDT"`
		StockSymbols  []string      `envconfig:"STOCK_SYMBOLS" default:"RELIANCE,TCS,INFY,HDFCBANK,ICICIBANK,KOTAKBANK,SBIN,HINDUNILVR,LT,BAJFINANCE"`
		IndexSymbols  []string      `envconfig:"INDEX_SYMBOLS" default:"NIFTY,BANKNIFTY,SENSEX,MIDCPNIFTY"`
		CandlesLimit  int           `envconfig:"CANDLES_LIMIT" default:"300"`
		Workers       int           `envconfig:"SCAN_WORKERS" default:"1"`
		FetchInterval time.Duration `envconfig:"FETCH_INTERVAL" default:"15m"`
	}

	// 알림 설정
	Alert struct {
		Mode               string        `envconfig:"ALERT_MODE" default:"short"`
		ConfidenceDecimals int           `envconfig:"CONFIDENCE_DECIMALS" default:"0"`
		ConfidenceBoost    float64       `envconfig:"CONFIDENCE_BOOST" default:"0"`
		Enabled            bool          `envconfig:"ENABLE_ALERTS" default:"true"`
		Interval           time.Duration `envconfig:"ALERT_INTERVAL" default:"400ms"`
	}

	// 텔레그램 설정 (없으면 콘솔 출력)
	Telegram struct {
		BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `envconfig:"TELEGRAM_CHAT_ID"`
	}

	// 디스코드 웹훅 설정 (선택)
	Discord struct {
		SignalWebhook string `envconfig:"DISCORD_SIGNAL_WEBHOOK"`
	}

	// Bybit 설정
	Bybit struct {
		BaseURL        string        `envconfig:"BYBIT_BASE_URL" default:"https://api.bybit.com"`
		Timeout        time.Duration `envconfig:"BYBIT_TIMEOUT" default:"20s"`
		MaxRetries     int           `envconfig:"BYBIT_MAX_RETRIES" default:"3"`
		RequestsPerSec float64       `envconfig:"BYBIT_REQUESTS_PER_SEC" default:"5"`
	}

	// Upstox 설정 (선택)
	Upstox struct {
		APIKey      string `envconfig:"UPSTOX_API_KEY"`
		APISecret   string `envconfig:"UPSTOX_API_SECRET"`
		AccessToken string `envconfig:"UPSTOX_ACCESS_TOKEN"`
	}

	// 애플리케이션 설정
	App struct {
		LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
		LogPretty   bool   `envconfig:"LOG_PRETTY" default:"false"`
		MetricsAddr string `envconfig:"METRICS_ADDR"`
	}

	// EnvFileMissing은 .env 파일을 찾지 못했는지 나타냅니다
	EnvFileMissing bool `ignored:"true"`
}

// TelegramConfigured는 텔레그램 토큰과 채팅 ID가 모두 설정되었는지 확인합니다
func (c *Config) TelegramConfigured() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// TimeIntervals는 타임프레임 목록을 도메인 타입으로 반환합니다
func (c *Config) TimeIntervals() []domain.TimeInterval {
	out := make([]domain.TimeInterval, len(c.Scanner.Timeframes))
	for i, tf := range c.Scanner.Timeframes {
		out[i] = domain.TimeInterval(tf)
	}
	return out
}

// ValidateConfig는 설정이 유효한지 확인합니다.
func ValidateConfig(cfg *Config) error {
	if len(cfg.Scanner.Timeframes) == 0 {
		return fmt.Errorf("TIMEFRAMES는 최소 하나 이상이어야 합니다")
	}

	if cfg.Scanner.CandlesLimit < 50 {
		return fmt.Errorf("CANDLES_LIMIT은 50 이상이어야 합니다")
	}

	if cfg.Scanner.Workers < 1 {
		return fmt.Errorf("SCAN_WORKERS는 1 이상이어야 합니다")
	}

	if cfg.Scanner.FetchInterval < 1*time.Minute {
		return fmt.Errorf("FETCH_INTERVAL은 1분 이상이어야 합니다")
	}

	switch notification.Mode(cfg.Alert.Mode) {
	case notification.ModeShort, notification.ModeDetailed:
	default:
		return fmt.Errorf("ALERT_MODE는 short 또는 detailed이어야 합니다: %q", cfg.Alert.Mode)
	}

	if cfg.Alert.ConfidenceDecimals < 0 || cfg.Alert.ConfidenceDecimals > 6 {
		return fmt.Errorf("CONFIDENCE_DECIMALS는 0 이상 6 이하이어야 합니다")
	}

	if cfg.Alert.Interval < 0 {
		return fmt.Errorf("ALERT_INTERVAL은 음수일 수 없습니다")
	}

	if cfg.Bybit.MaxRetries < 0 {
		return fmt.Errorf("BYBIT_MAX_RETRIES는 음수일 수 없습니다")
	}

	return nil
}

// LoadConfig는 .env 파일과 환경변수에서 설정을 로드합니다.
// .env 파일이 없으면 환경변수만 사용합니다 (EnvFileMissing = true).
func LoadConfig(envFile string) (*Config, error) {
	var cfg Config

	// .env 파일 로드
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf(".env 파일 로드 실패: %w", err)
		}
		cfg.EnvFileMissing = true
	}

	// 환경변수를 구조체로 파싱
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("환경변수 처리 실패: %w", err)
	}
	normalize(&cfg)

	// 설정값 검증
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("설정값 검증 실패: %w", err)
	}

	return &cfg, nil
}

// normalize는 목록 항목의 공백과 빈 항목을 제거합니다
func normalize(cfg *Config) {
	cfg.Scanner.Timeframes = cleanList(cfg.Scanner.Timeframes, false)
	cfg.Scanner.CryptoSymbols = cleanList(cfg.Scanner.CryptoSymbols, true)
	cfg.Scanner.StockSymbols = cleanList(cfg.Scanner.StockSymbols, true)
	cfg.Scanner.IndexSymbols = cleanList(cfg.Scanner.IndexSymbols, true)
	cfg.Alert.Mode = strings.ToLower(strings.TrimSpace(cfg.Alert.Mode))
}

func cleanList(items []string, upper bool) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if upper {
			s = strings.ToUpper(s)
		}
		out = append(out, s)
	}
	return out
}
