package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"scrum-analytics-service/internal/config"
	"scrum-analytics-service/internal/logging"
	"scrum-analytics-service/internal/service"
)

// BatchRunner выполняет один пакетный проход.
type BatchRunner interface {
	RunBatch(ctx context.Context, kind service.BatchKind) (service.BatchReport, error)
}

// Locker выполняет функцию под распределённой блокировкой.
type Locker interface {
	WithAdvisoryLock(ctx context.Context, key int64, fn func(context.Context) error) (bool, error)
}

// Scheduler запускает пакетные снимки по расписанию.
// Каждый тип снимка берёт свою advisory-блокировку, поэтому при нескольких
// экземплярах сервиса тик выполняет только один из них.
type Scheduler struct {
	runner  BatchRunner
	locker  Locker
	cron    *cron.Cron
	lockKey int64
	timeout time.Duration
}

// New создаёт планировщик и регистрирует расписания всех типов снимков.
func New(cfg config.Config, runner BatchRunner, locker Locker) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	s := &Scheduler{
		runner:  runner,
		locker:  locker,
		cron:    cron.New(cron.WithLocation(cfg.Analytics.Location()), cron.WithParser(parser)),
		lockKey: cfg.Analytics.LockKey,
		timeout: cfg.Timeouts.LongOperation,
	}

	schedules := map[service.BatchKind]string{
		service.KindAdmin:   cfg.Analytics.AdminSchedule,
		service.KindKanban:  cfg.Analytics.KanbanSchedule,
		service.KindSprint:  cfg.Analytics.SprintSchedule,
		service.KindRelease: cfg.Analytics.ReleaseSchedule,
	}
	for _, kind := range service.BatchKinds() {
		spec := schedules[kind]
		if spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(spec, func() { s.Tick(context.Background(), kind) }); err != nil {
			return nil, fmt.Errorf("schedule %s analytics %q: %w", kind, spec, err)
		}
	}
	return s, nil
}

// Start запускает планировщик в фоне.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и дожидается текущих тиков или отмены ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		slog.WarnContext(ctx, "scheduler stop timed out")
	}
}

// Entries возвращает число зарегистрированных расписаний.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Tick выполняет один проход указанного типа под блокировкой.
func (s *Scheduler) Tick(ctx context.Context, kind service.BatchKind) {
	ctx = logging.WithLogJobKind(ctx, string(kind))
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ran, err := s.locker.WithAdvisoryLock(ctx, s.keyFor(kind), func(ctx context.Context) error {
		report, err := s.runner.RunBatch(ctx, kind)
		if err != nil {
			return err
		}
		if report.Failed > 0 {
			slog.WarnContext(ctx, "analytics tick finished with failures", "failed", report.Failed, "persisted", report.Persisted)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(logging.ErrorCtx(ctx, err), "analytics tick failed", "error", err)
		return
	}
	if !ran {
		slog.InfoContext(ctx, "analytics tick already running elsewhere")
	}
}

func (s *Scheduler) keyFor(kind service.BatchKind) int64 {
	for i, k := range service.BatchKinds() {
		if k == kind {
			return s.lockKey + int64(i)
		}
	}
	return s.lockKey
}
