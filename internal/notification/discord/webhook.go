package discord

import (
	"context"
)

// Send는 평문 알림을 웹훅 content로 전송합니다
func (c *Client) Send(ctx context.Context, text string) error {
	return c.sendToWebhook(ctx, c.signalWebhook, WebhookMessage{Content: text})
}
