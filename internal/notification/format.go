package notification

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/assist-by/phoenix-scanner/internal/domain"
	"github.com/assist-by/phoenix-scanner/internal/position"
)

// Mode는 알림 메시지 형식입니다
type Mode string

const (
	ModeShort    Mode = "short"
	ModeDetailed Mode = "detailed"
)

// Formatter는 알림을 한 줄 또는 여러 줄의 텍스트로 만듭니다
type Formatter struct {
	Mode               Mode
	ConfidenceDecimals int
}

// Format은 설정된 모드로 알림을 포맷합니다
func (f Formatter) Format(alert domain.Alert) string {
	if f.Mode == ModeDetailed {
		return FormatDetailed(alert, f.ConfidenceDecimals)
	}
	return FormatShort(alert, f.ConfidenceDecimals)
}

// FormatShort는 `[ASSET] SYMBOL DIRECTION @ price | TP: x | SL: y | Confidence: c%` 형식의 한 줄을 만듭니다
func FormatShort(alert domain.Alert, confidenceDecimals int) string {
	price, _ := decimal.NewFromFloat(alert.Price).Round(position.PricePrecision).Float64()
	return fmt.Sprintf("[%s] %s %s @ %s | TP: %s | SL: %s | Confidence: %s",
		alert.Asset,
		alert.Symbol,
		alert.Direction,
		FormatNumber(price),
		FormatNumber(alert.Levels.TakeProfit),
		FormatNumber(alert.Levels.StopLoss),
		FormatConfidence(alert.Confidence, confidenceDecimals),
	)
}

// FormatDetailed는 한 줄 요약 뒤에 타임프레임, 보상:위험 비율, 지표 스냅샷을 덧붙입니다
func FormatDetailed(alert domain.Alert, confidenceDecimals int) string {
	d := alert.Detail
	var b strings.Builder
	b.WriteString(FormatShort(alert, confidenceDecimals))
	fmt.Fprintf(&b, "\nTF: %s | R:R %s", alert.Timeframe, FormatNumber(position.RewardRisk(alert.Levels, alert.Price)))
	fmt.Fprintf(&b, "\nEMA9/21: %.2f/%.2f | RSI: %.2f", d.EMA9, d.EMA21, d.RSI)
	fmt.Fprintf(&b, "\nMACD: %.4f/%.4f | BB: %.2f~%.2f | Vol: %.2f", d.MACDLine, d.MACDSignal, d.BBLower, d.BBUpper, d.Volume)
	return b.String()
}

// FormatConfidence는 신뢰도를 퍼센트 문자열로 만듭니다. decimals가 0 이하이면 짝수 반올림한 정수입니다
func FormatConfidence(confidence float64, decimals int) string {
	if decimals <= 0 {
		return fmt.Sprintf("%.0f%%", math.RoundToEven(confidence))
	}
	return fmt.Sprintf("%.*f%%", decimals, confidence)
}

// FormatNumber는 가장 짧은 표현으로 숫자를 출력하되 정수도 소수점 한 자리를 붙입니다 (118 → "118.0")
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) || strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}
