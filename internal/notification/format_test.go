package notification

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assist-by/phoenix-scanner/internal/domain"
)

func sampleAlert() domain.Alert {
	return domain.Alert{
		Asset:      domain.Crypto,
		Symbol:     "ETHUSDT",
		Timeframe:  domain.Interval4h,
		Direction:  domain.Buy,
		Price:      2930.456,
		Levels:     domain.TargetLevels{TakeProfit: 2950, StopLoss: 2910.5},
		Confidence: 82.5,
		Detail:     domain.Snapshot{EMA9: 2925, EMA21: 2900, RSI: 61.2},
	}
}

func TestFormatShort(t *testing.T) {
	assert.Equal(t,
		"[CRYPTO] ETHUSDT BUY @ 2930.46 | TP: 2950.0 | SL: 2910.5 | Confidence: 82%",
		FormatShort(sampleAlert(), 0),
	)
	assert.Equal(t,
		"[CRYPTO] ETHUSDT BUY @ 2930.46 | TP: 2950.0 | SL: 2910.5 | Confidence: 82.5%",
		FormatShort(sampleAlert(), 1),
	)
}

func TestFormatConfidence(t *testing.T) {
	tests := []struct {
		confidence float64
		decimals   int
		want       string
	}{
		{60, 0, "60%"},
		{82.5, 0, "82%"}, // 짝수 반올림
		{83.5, 0, "84%"},
		{80, 2, "80.00%"},
		{72.25, 1, "72.2%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatConfidence(tt.confidence, tt.decimals))
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "118.0", FormatNumber(118))
	assert.Equal(t, "165.89", FormatNumber(165.89))
	assert.Equal(t, "-13.0", FormatNumber(-13))
	assert.Equal(t, "0.0", FormatNumber(0))
	assert.Equal(t, "0.05", FormatNumber(0.05))
}

func TestFormatter(t *testing.T) {
	alert := sampleAlert()

	short := Formatter{Mode: ModeShort}.Format(alert)
	assert.NotContains(t, short, "\n")

	detailed := Formatter{Mode: ModeDetailed}.Format(alert)
	lines := strings.Split(detailed, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, short, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "TF: 4h | R:R "))
	assert.Contains(t, lines[2], "RSI: 61.20")
}

type stubNotifier struct {
	texts  []string
	alerts []domain.Alert
	err    error
}

func (s *stubNotifier) Send(_ context.Context, text string) error {
	s.texts = append(s.texts, text)
	return s.err
}

type richStub struct{ stubNotifier }

func (r *richStub) SendAlert(_ context.Context, alert domain.Alert, text string) error {
	r.alerts = append(r.alerts, alert)
	return r.err
}

func TestMulti(t *testing.T) {
	plain := &stubNotifier{}
	failing := &stubNotifier{err: errors.New("down")}
	rich := &richStub{}

	m := Multi{plain, failing, rich}
	err := m.Send(context.Background(), "a")
	require.Error(t, err)
	assert.ErrorContains(t, err, "down")
	assert.Equal(t, []string{"a"}, plain.texts)
	assert.Equal(t, []string{"a"}, rich.texts)

	err = Deliver(context.Background(), m, sampleAlert(), "b")
	require.Error(t, err)
	assert.Equal(t, []string{"a", "b"}, plain.texts)
	assert.Len(t, rich.alerts, 1, "AlertNotifier는 SendAlert로 받는다")
	assert.Equal(t, []string{"a"}, rich.texts)

	assert.NoError(t, Multi{plain}.Send(context.Background(), "c"))
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsoleNotifier(zerolog.New(&buf))
	require.NoError(t, n.Send(context.Background(), "[CRYPTO] BTCUSDT BUY"))
	assert.Contains(t, buf.String(), "[CRYPTO] BTCUSDT BUY")
	assert.Contains(t, buf.String(), `"sink":"console"`)
}

func TestGetColorForDirection(t *testing.T) {
	assert.Equal(t, ColorBuy, GetColorForDirection(domain.Buy))
	assert.Equal(t, ColorBuy, GetColorForDirection("buy"))
	assert.Equal(t, ColorSell, GetColorForDirection(domain.Sell))
}
