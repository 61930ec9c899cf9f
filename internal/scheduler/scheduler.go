package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task는 스케줄러가 실행할 작업을 정의하는 인터페이스입니다
type Task interface {
	Execute(ctx context.Context) error
}

// TaskFunc는 함수를 Task로 사용할 수 있게 합니다
type TaskFunc func(ctx context.Context) error

// Execute는 Task 인터페이스를 구현합니다
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Scheduler는 interval 경계(예: 15분 → :00, :15, ...)에 맞춰 작업을 실행하는 스케줄러입니다
type Scheduler struct {
	interval     time.Duration
	task         Task
	logger       zerolog.Logger
	runOnStart   bool
	stopCh       chan struct{}
	stopOnce     sync.Once
}

// Option은 스케줄러 옵션입니다
type Option func(*Scheduler)

// WithLogger는 로거를 설정합니다
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithRunOnStart는 첫 경계를 기다리기 전에 작업을 한 번 실행합니다
func WithRunOnStart(enabled bool) Option {
	return func(s *Scheduler) {
		s.runOnStart = enabled
	}
}

// NewScheduler는 새로운 스케줄러를 생성합니다
func NewScheduler(interval time.Duration, task Task, opts ...Option) *Scheduler {
	s := &Scheduler{
		interval: interval,
		task:     task,
		logger:   zerolog.Nop(),
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start는 스케줄러를 시작합니다. ctx가 취소되거나 Stop이 호출될 때까지 블록됩니다
func (s *Scheduler) Start(ctx context.Context) error {
	if s.runOnStart {
		s.run(ctx)
	}

	timer := time.NewTimer(s.untilNextRun())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.stopCh:
			return nil

		case <-timer.C:
			s.run(ctx)
			// 타이머 리셋
			timer.Reset(s.untilNextRun())
		}
	}
}

// run은 작업을 한 번 실행합니다. 에러가 발생해도 스케줄은 계속됩니다
func (s *Scheduler) run(ctx context.Context) {
	if err := s.task.Execute(ctx); err != nil {
		s.logger.Error().Err(err).Msg("작업 실행 실패")
	}
}

// untilNextRun은 다음 경계까지 남은 시간을 계산합니다
func (s *Scheduler) untilNextRun() time.Duration {
	now := time.Now()
	nextRun := now.Truncate(s.interval).Add(s.interval)
	wait := nextRun.Sub(now)

	s.logger.Info().
		Dur("wait", wait.Round(time.Second)).
		Str("next_run", nextRun.Format("15:04:05")).
		Msg("다음 실행 대기")
	return wait
}

// Stop은 스케줄러를 중지합니다. 여러 번 호출해도 안전합니다
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}
