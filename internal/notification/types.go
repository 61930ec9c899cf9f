package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/assist-by/phoenix-scanner/internal/domain"
)

const (
	ColorBuy  = 0x00FF00 // 녹색
	ColorSell = 0xFF0000 // 빨간색
	ColorInfo = 0x0099FF // 파란색
)

// Notifier는 평문 알림 전송 인터페이스를 정의합니다
type Notifier interface {
	// Send는 한 줄 알림을 전송합니다
	Send(ctx context.Context, text string) error
}

// AlertNotifier는 알림 원본을 받아 풍부한 형식으로 전송할 수 있는 Notifier입니다.
// 구현하지 않은 Notifier에는 포맷된 텍스트만 전달됩니다.
type AlertNotifier interface {
	Notifier
	SendAlert(ctx context.Context, alert domain.Alert, text string) error
}

// Deliver는 n이 AlertNotifier이면 SendAlert를, 아니면 Send를 호출합니다
func Deliver(ctx context.Context, n Notifier, alert domain.Alert, text string) error {
	if rich, ok := n.(AlertNotifier); ok {
		return rich.SendAlert(ctx, alert, text)
	}
	return n.Send(ctx, text)
}

// GetColorForDirection은 시그널 방향에 따른 색상을 반환합니다
func GetColorForDirection(direction domain.Direction) int {
	if direction.IsBuy() {
		return ColorBuy
	}
	return ColorSell
}

// ConsoleNotifier는 알림 채널이 설정되지 않았을 때 로그로만 출력합니다
type ConsoleNotifier struct {
	logger zerolog.Logger
}

// NewConsoleNotifier는 새로운 콘솔 알림기를 생성합니다
func NewConsoleNotifier(logger zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{logger: logger}
}

// Send는 Notifier 인터페이스를 구현합니다
func (c *ConsoleNotifier) Send(_ context.Context, text string) error {
	c.logger.Info().Str("sink", "console").Msg(text)
	return nil
}

// Multi는 여러 Notifier로 같은 알림을 전송합니다
type Multi []Notifier

// Send는 모든 Notifier로 전송하고 실패한 것들의 에러를 합쳐 반환합니다
func (m Multi) Send(ctx context.Context, text string) error {
	var errs []error
	for i, n := range m {
		if err := n.Send(ctx, text); err != nil {
			errs = append(errs, fmt.Errorf("알림 채널 %d 전송 실패: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// SendAlert는 각 Notifier에 맞는 방식으로 알림을 전송합니다
func (m Multi) SendAlert(ctx context.Context, alert domain.Alert, text string) error {
	var errs []error
	for i, n := range m {
		if err := Deliver(ctx, n, alert, text); err != nil {
			errs = append(errs, fmt.Errorf("알림 채널 %d 전송 실패: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
