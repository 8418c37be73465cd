package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scrum-analytics-service/internal/config"
	"scrum-analytics-service/internal/service"
)

type stubRunner struct {
	kinds []service.BatchKind
	err   error
}

func (r *stubRunner) RunBatch(ctx context.Context, kind service.BatchKind) (service.BatchReport, error) {
	r.kinds = append(r.kinds, kind)
	return service.BatchReport{Kind: kind}, r.err
}

type stubLocker struct {
	held map[int64]bool
	keys []int64
}

func (l *stubLocker) WithAdvisoryLock(ctx context.Context, key int64, fn func(context.Context) error) (bool, error) {
	l.keys = append(l.keys, key)
	if l.held[key] {
		return false, nil
	}
	return true, fn(ctx)
}

func testConfig() config.Config {
	return config.Config{
		Timeouts: config.TimeoutConfig{LongOperation: time.Second},
		Analytics: config.AnalyticsConfig{
			Timezone:        "UTC",
			AdminSchedule:   "0 3 * * *",
			KanbanSchedule:  "10 3 * * *",
			SprintSchedule:  "20 3 * * *",
			ReleaseSchedule: "30 3 * * *",
			LockKey:         100,
		},
	}
}

func TestNewRegistersAllSchedules(t *testing.T) {
	s, err := New(testConfig(), &stubRunner{}, &stubLocker{})
	require.NoError(t, err)
	require.Equal(t, 4, s.Entries())
}

func TestNewSkipsDisabledSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Analytics.SprintSchedule = ""

	s, err := New(cfg, &stubRunner{}, &stubLocker{})
	require.NoError(t, err)
	require.Equal(t, 3, s.Entries())
}

func TestNewRejectsBadSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Analytics.SprintSchedule = "every minute"

	_, err := New(cfg, &stubRunner{}, &stubLocker{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "sprint")
}

func TestTickRunsUnderPerKindLock(t *testing.T) {
	runner := &stubRunner{}
	locker := &stubLocker{}
	s, err := New(testConfig(), runner, locker)
	require.NoError(t, err)

	s.Tick(context.Background(), service.KindSprint)
	s.Tick(context.Background(), service.KindAdmin)

	require.Equal(t, []service.BatchKind{service.KindSprint, service.KindAdmin}, runner.kinds)
	require.Equal(t, []int64{102, 100}, locker.keys)
}

func TestTickSkipsWhenLockHeld(t *testing.T) {
	runner := &stubRunner{}
	locker := &stubLocker{held: map[int64]bool{101: true}}
	s, err := New(testConfig(), runner, locker)
	require.NoError(t, err)

	s.Tick(context.Background(), service.KindKanban)
	require.Empty(t, runner.kinds)
}

func TestTickSurvivesRunnerError(t *testing.T) {
	runner := &stubRunner{err: errors.New("storage read failed")}
	s, err := New(testConfig(), runner, &stubLocker{})
	require.NoError(t, err)

	require.NotPanics(t, func() { s.Tick(context.Background(), service.KindRelease) })
	require.Len(t, runner.kinds, 1)
}

func TestStartStop(t *testing.T) {
	s, err := New(testConfig(), &stubRunner{}, &stubLocker{})
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
