package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/assist-by/phoenix-scanner/internal/metrics"
)

// Task는 스케줄러가 실행하는 스캔 작업입니다
type Task struct {
	scanner *Scanner
	health  *metrics.HealthStatus
}

// NewTask는 새로운 스캔 작업을 생성합니다. health는 nil일 수 있습니다
func NewTask(s *Scanner, health *metrics.HealthStatus) *Task {
	return &Task{scanner: s, health: health}
}

// Execute는 스캔을 한 번 실행합니다. 알림 전송 실패가 있으면 에러를 반환합니다
func (t *Task) Execute(ctx context.Context) error {
	report, err := t.scanner.Run(ctx)
	if err == nil && report.Failed > 0 {
		err = fmt.Errorf("알림 %d건 전송 실패", report.Failed)
	}

	if t.health != nil {
		alerts := 0
		if report != nil {
			alerts = len(report.Alerts)
		}
		t.health.SetScanResult(time.Now(), alerts, err)
	}
	return err
}
