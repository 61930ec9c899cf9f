package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/assist-by/phoenix-scanner/internal/domain"
	"github.com/assist-by/phoenix-scanner/internal/notification"
)

// SendAlert는 시그널 알림을 임베드로 전송합니다. text는 한 줄 요약으로 content에 들어갑니다
func (c *Client) SendAlert(ctx context.Context, alert domain.Alert, text string) error {
	emoji := "🔻"
	if alert.Direction.IsBuy() {
		emoji = "🚀"
	}

	// 기준가 대비 손익률
	var slPct, tpPct float64
	if alert.Price != 0 {
		slPct = (alert.Levels.StopLoss - alert.Price) / alert.Price * 100
		tpPct = (alert.Levels.TakeProfit - alert.Price) / alert.Price * 100
	}

	d := alert.Detail
	technicalValues := fmt.Sprintf("```\n[EMA9]: %.5f\n[EMA21]: %.5f\n[RSI]: %.2f\n[MACD Line]: %.5f\n[Signal Line]: %.5f\n[BB]: %.5f ~ %.5f\n[Volume]: %.2f```",
		d.EMA9, d.EMA21, d.RSI, d.MACDLine, d.MACDSignal, d.BBLower, d.BBUpper, d.Volume)

	description := fmt.Sprintf(`**타임프레임**: %s
**기준가**: %s
**손절가**: %s (%.2f%%)
**목표가**: %s (%.2f%%)
**신뢰도**: %.0f%%`,
		alert.Timeframe,
		notification.FormatNumber(alert.Price),
		notification.FormatNumber(alert.Levels.StopLoss), slPct,
		notification.FormatNumber(alert.Levels.TakeProfit), tpPct,
		alert.Confidence,
	)

	embed := newAlertEmbed(
		fmt.Sprintf("%s %s [%s] %s", emoji, alert.Direction, alert.Asset, alert.Symbol),
		description,
		notification.GetColorForDirection(alert.Direction),
		time.Now(),
	).field("기술적 지표", technicalValues, false)

	return c.sendToWebhook(ctx, c.signalWebhook, WebhookMessage{
		Content: text,
		Embeds:  []Embed{*embed},
	})
}
