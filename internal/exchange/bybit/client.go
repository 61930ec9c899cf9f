// internal/exchange/bybit/client.go
package bybit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/assist-by/phoenix-scanner/internal/domain"
	"github.com/assist-by/phoenix-scanner/internal/exchange"
)

const (
	// DefaultBaseURL은 Bybit 메인넷 REST 주소입니다
	DefaultBaseURL = "https://api.bybit.com"
	// MaxLimit은 한 번에 조회할 수 있는 최대 캔들 수입니다
	MaxLimit = 1000

	klinePath = "/v5/market/kline"
)

// Categories는 캔들 조회 시 시도하는 상품 분류 순서입니다 (USDT 무기한 → 현물)
var Categories = []string{"linear", "spot"}

// intervalMap은 타임프레임을 Bybit interval 파라미터로 변환합니다
var intervalMap = map[domain.TimeInterval]string{
	domain.Interval1m:  "1",
	domain.Interval3m:  "3",
	domain.Interval5m:  "5",
	domain.Interval15m: "15",
	domain.Interval30m: "30",
	domain.Interval1h:  "60",
	domain.Interval2h:  "120",
	domain.Interval4h:  "240",
	domain.Interval1d:  "D",
}

// APIError는 retCode가 0이 아닌 Bybit 응답입니다
type APIError struct {
	Category string
	Code     int
	Message  string
}

// Error는 error 인터페이스를 구현합니다
func (e *APIError) Error() string {
	return fmt.Sprintf("Bybit API 에러 [%s] (코드: %d): %s", e.Category, e.Code, e.Message)
}

// HTTPStatusError는 200이 아닌 HTTP 응답입니다
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

// Error는 error 인터페이스를 구현합니다
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP 에러(%d): %s", e.StatusCode, e.Body)
}

// Client는 Bybit v5 공개 시장 데이터 클라이언트입니다
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
	newBackOff func() backoff.BackOff
	logger     zerolog.Logger
}

// ClientOption은 클라이언트 생성 옵션을 정의합니다
type ClientOption func(*Client)

// WithTimeout은 HTTP 클라이언트의 타임아웃을 설정합니다
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL은 기본 URL을 설정합니다
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient는 사용할 HTTP 클라이언트를 설정합니다
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMaxRetries는 요청당 최대 재시도 횟수를 설정합니다
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = uint64(n)
		}
	}
}

// WithRateLimit은 초당 요청 수를 제한합니다. 0 이하이면 제한하지 않습니다
func WithRateLimit(requestsPerSec float64) ClientOption {
	return func(c *Client) {
		if requestsPerSec <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSec), 1)
	}
}

// WithBackOff는 재시도 간격 정책을 설정합니다
func WithBackOff(fn func() backoff.BackOff) ClientOption {
	return func(c *Client) {
		c.newBackOff = fn
	}
}

// WithLogger는 로거를 설정합니다
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 30 * time.Second
	return b
}

// NewClient는 새로운 Bybit 클라이언트를 생성합니다
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
		maxRetries: 3,
		newBackOff: defaultBackOff,
		logger:     zerolog.Nop(),
	}

	// 옵션 적용
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetKlines는 캔들 데이터를 조회합니다.
// linear 분류를 먼저 시도하고 실패하면 spot으로 재시도하며, 모두 실패하면 마지막 에러를 반환합니다.
func (c *Client) GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	var lastErr error
	for _, category := range Categories {
		candles, err := c.getCategoryKlines(ctx, category, symbol, interval, limit)
		if err == nil {
			return candles, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		c.logger.Debug().
			Err(err).
			Str("category", category).
			Str("symbol", symbol).
			Msg("캔들 조회 실패, 다음 분류로 재시도")
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) getCategoryKlines(ctx context.Context, category, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	params := url.Values{}
	params.Set("category", category)
	params.Set("symbol", symbol)
	params.Set("interval", Interval(interval))
	params.Set("limit", strconv.Itoa(min(limit, MaxLimit)))

	body, err := c.doRequest(ctx, klinePath, params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		RetCode int    `json:"retCode"`
		RetMsg  string `json:"retMsg"`
		Result  struct {
			Category string  `json:"category"`
			Symbol   string  `json:"symbol"`
			List     [][]any `json:"list"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("캔들 응답 파싱 실패: %w", err)
	}
	if resp.RetCode != 0 {
		return nil, &APIError{Category: category, Code: resp.RetCode, Message: resp.RetMsg}
	}

	// Bybit는 최신 봉부터 내려주므로 ParseKlineRows에서 오름차순으로 재정렬된다
	candles, err := exchange.ParseKlineRows(resp.Result.List)
	if err != nil {
		return nil, fmt.Errorf("%s %s 캔들 변환 실패: %w", category, symbol, err)
	}
	return candles, nil
}

// doRequest는 속도 제한과 재시도를 적용해 GET 요청을 실행합니다
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("URL 파싱 실패: %w", err)
	}
	reqURL.RawQuery = params.Encode()

	var body []byte
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("요청 생성 실패: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("API 요청 실패: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("응답 읽기 실패: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			statusErr := &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(data)}
			if retryable(resp.StatusCode) {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body = data
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn().Err(err).Dur("wait", wait).Str("endpoint", endpoint).Msg("Bybit 요청 재시도")
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return body, nil
}

// retryable은 재시도할 가치가 있는 상태 코드인지 확인합니다
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// Interval은 타임프레임을 Bybit interval 값으로 변환합니다. 매핑이 없으면 그대로 사용합니다
func Interval(interval domain.TimeInterval) string {
	if v, ok := intervalMap[interval]; ok {
		return v
	}
	return string(interval)
}

// IsAPIError는 err가 Bybit API 에러인지 확인합니다
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
