package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/phoenix-scanner/internal/domain"
	"github.com/assist-by/phoenix-scanner/internal/notification"
)

func newWebhookServer(t *testing.T, status int, got *WebhookMessage) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		w.WriteHeader(status)
	}))
}

func TestSend(t *testing.T) {
	var got WebhookMessage
	server := newWebhookServer(t, http.StatusNoContent, &got)
	defer server.Close()

	var n notification.Notifier = NewClient(server.URL)
	require.NoError(t, n.Send(context.Background(), "hello"))
	assert.Equal(t, "hello", got.Content)
	assert.Empty(t, got.Embeds)
}

func TestSendAlert(t *testing.T) {
	var got WebhookMessage
	server := newWebhookServer(t, http.StatusOK, &got)
	defer server.Close()

	alert := domain.Alert{
		Asset:      domain.Crypto,
		Symbol:     "BTCUSDT",
		Timeframe:  domain.Interval1h,
		Direction:  domain.Sell,
		Price:      100,
		Levels:     domain.TargetLevels{TakeProfit: 82, StopLoss: 110},
		Confidence: 60,
	}
	err := notification.Deliver(context.Background(), NewClient(server.URL), alert, "summary")
	require.NoError(t, err)

	assert.Equal(t, "summary", got.Content)
	require.Len(t, got.Embeds, 1)
	embed := got.Embeds[0]
	assert.Equal(t, "🔻 SELL [CRYPTO] BTCUSDT", embed.Title)
	assert.Equal(t, notification.ColorSell, embed.Color)
	assert.Contains(t, embed.Description, "**손절가**: 110.0 (10.00%)")
	assert.Contains(t, embed.Description, "**목표가**: 82.0 (-18.00%)")
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, footerText, embed.Footer.Text)
}

func TestSend_ErrorStatus(t *testing.T) {
	var got WebhookMessage
	server := newWebhookServer(t, http.StatusBadRequest, &got)
	defer server.Close()

	err := NewClient(server.URL).Send(context.Background(), "x")
	assert.ErrorContains(t, err, "400")
}

func TestAlertEmbed_Limits(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.FixedZone("KST", 9*3600))
	e := newAlertEmbed(strings.Repeat("가", 300), "d", notification.ColorInfo, at)

	assert.Equal(t, maxTitleLen, utf8.RuneCountInString(e.Title))
	assert.True(t, strings.HasSuffix(e.Title, "…"))
	assert.Equal(t, "d", e.Description)
	assert.Equal(t, "2024-03-01T00:00:00Z", e.Timestamp)
	assert.Equal(t, footerText, e.Footer.Text)

	for i := 0; i < maxFields+5; i++ {
		e.field("f", strings.Repeat("x", 2000), true)
	}
	assert.Len(t, e.Fields, maxFields)
	assert.Len(t, e.Fields[0].Value, maxFieldValueLen-1+len("…"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "", truncate("", 1))
}
