package position

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/assist-by/phoenix-scanner/internal/domain"
)

func TestCalculateLevels(t *testing.T) {
	tests := []struct {
		name      string
		close     float64
		atr       float64
		direction domain.Direction
		want      domain.TargetLevels
	}{
		{
			name:      "매수",
			close:     100,
			atr:       10,
			direction: domain.Buy,
			want:      domain.TargetLevels{TakeProfit: 118, StopLoss: 90},
		},
		{
			name:      "매도",
			close:     100,
			atr:       10,
			direction: domain.Sell,
			want:      domain.TargetLevels{TakeProfit: 82, StopLoss: 110},
		},
		{
			name:      "소문자 buy도 매수",
			close:     100,
			atr:       10,
			direction: domain.Direction("buy"),
			want:      domain.TargetLevels{TakeProfit: 118, StopLoss: 90},
		},
		{
			name:      "알 수 없는 방향은 매도",
			close:     100,
			atr:       10,
			direction: domain.Direction("HOLD"),
			want:      domain.TargetLevels{TakeProfit: 82, StopLoss: 110},
		},
		{
			name:      "소수점 2자리 반올림",
			close:     161,
			atr:       38.0 / 14,
			direction: domain.Buy,
			want:      domain.TargetLevels{TakeProfit: 165.89, StopLoss: 158.29},
		},
		{
			name:      "ATR 0이면 기준가 그대로",
			close:     42.5,
			atr:       0,
			direction: domain.Sell,
			want:      domain.TargetLevels{TakeProfit: 42.5, StopLoss: 42.5},
		},
		{
			name:      "음수 가격도 거부하지 않음",
			close:     5,
			atr:       10,
			direction: domain.Sell,
			want:      domain.TargetLevels{TakeProfit: -13, StopLoss: 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateLevels(tt.close, tt.atr, tt.direction))
		})
	}
}

func TestRewardRisk(t *testing.T) {
	levels := CalculateLevels(100, 10, domain.Buy)
	assert.Equal(t, 1.8, RewardRisk(levels, 100))

	levels = CalculateLevels(100, 10, domain.Sell)
	assert.Equal(t, 1.8, RewardRisk(levels, 100))

	assert.Equal(t, 0.0, RewardRisk(domain.TargetLevels{TakeProfit: 10, StopLoss: 10}, 10))
}
