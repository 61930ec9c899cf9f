// Package upstox는 NSE 주식/지수 캔들 제공자 자리입니다. 실제 API 연동 전까지는 항상 ErrNotConfigured를 반환합니다.
package upstox

import (
	"context"
	"fmt"

	"github.com/assist-by/phoenix-scanner/internal/domain"
	"github.com/assist-by/phoenix-scanner/internal/exchange"
)

// Credentials는 Upstox API 인증 정보입니다
type Credentials struct {
	APIKey      string
	APISecret   string
	AccessToken string
}

// Configured는 액세스 토큰이 설정되었는지 확인합니다
func (c Credentials) Configured() bool {
	return c.AccessToken != ""
}

// Client는 Upstox 캔들 제공자입니다
type Client struct {
	creds Credentials
}

// NewClient는 새로운 Upstox 클라이언트를 생성합니다
func NewClient(creds Credentials) *Client {
	return &Client{creds: creds}
}

// GetKlines는 exchange.Provider를 구현합니다.
// TODO: 액세스 토큰이 있을 때 Upstox historical-candle API 연동
func (c *Client) GetKlines(ctx context.Context, symbol string, interval domain.TimeInterval, limit int) (domain.CandleList, error) {
	if !c.creds.Configured() {
		return nil, fmt.Errorf("upstox %s: %w (UPSTOX_ACCESS_TOKEN 없음)", symbol, exchange.ErrNotConfigured)
	}
	return nil, fmt.Errorf("upstox %s: %w (캔들 API 미연동)", symbol, exchange.ErrNotConfigured)
}
