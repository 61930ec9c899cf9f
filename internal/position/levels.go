// Package position은 시그널 기준가와 ATR로 익절/손절 가격을 계산합니다.
package position

import (
	"github.com/shopspring/decimal"

	"github.com/assist-by/phoenix-scanner/internal/domain"
)

const (
	// TakeProfitMult는 익절 거리의 ATR 배수입니다
	TakeProfitMult = 1.8
	// StopLossMult는 손절 거리의 ATR 배수입니다
	StopLossMult = 1.0
	// PricePrecision은 목표가 반올림 자릿수입니다
	PricePrecision = 2
)

// CalculateLevels는 기준 종가와 ATR로 TP/SL을 계산합니다.
// direction이 대소문자 무관 BUY가 아니면 모두 SELL로 취급합니다.
// 가격 범위 검사는 하지 않습니다 (음수 가격도 그대로 반환).
func CalculateLevels(close, atr float64, direction domain.Direction) domain.TargetLevels {
	c := decimal.NewFromFloat(close)
	tpOffset := decimal.NewFromFloat(atr * TakeProfitMult)
	slOffset := decimal.NewFromFloat(atr * StopLossMult)

	var tp, sl decimal.Decimal
	if direction.IsBuy() {
		tp = c.Add(tpOffset)
		sl = c.Sub(slOffset)
	} else {
		tp = c.Sub(tpOffset)
		sl = c.Add(slOffset)
	}

	return domain.TargetLevels{
		TakeProfit: tp.Round(PricePrecision).InexactFloat64(),
		StopLoss:   sl.Round(PricePrecision).InexactFloat64(),
	}
}

// RewardRisk는 기준가 대비 보상:위험 비율을 반환합니다. 위험 거리가 0이면 0입니다
func RewardRisk(levels domain.TargetLevels, close float64) float64 {
	c := decimal.NewFromFloat(close)
	reward := decimal.NewFromFloat(levels.TakeProfit).Sub(c).Abs()
	risk := decimal.NewFromFloat(levels.StopLoss).Sub(c).Abs()
	if risk.IsZero() {
		return 0
	}
	return reward.DivRound(risk, PricePrecision).InexactFloat64()
}
