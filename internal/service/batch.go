package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"scrum-analytics-service/internal/analytics"
	"scrum-analytics-service/internal/domain"
	"scrum-analytics-service/internal/logging"
	"scrum-analytics-service/internal/metrics"
)

// BatchReport итог одного пакетного прохода.
type BatchReport struct {
	Kind      BatchKind `json:"kind"`
	Built     int       `json:"built"`
	Persisted int       `json:"persisted"`
	Failed    int       `json:"failed"`
}

// batchInput данные трекера, прочитанные одним согласованным проходом.
type batchInput struct {
	teams     []domain.Team
	teamsByID map[string]domain.Team
	tickets   map[string][]domain.Ticket // по ID проекта
	sprints   []domain.Sprint
	releases  []domain.Release
	users     map[string]domain.User
}

// SaveAdminAnalytics строит и сохраняет административные снимки всех команд активных проектов.
func (s *Service) SaveAdminAnalytics(ctx context.Context) (BatchReport, error) {
	return s.RunBatch(ctx, KindAdmin)
}

// SaveKanbanAnalytics строит и сохраняет снимки Kanban-команд.
func (s *Service) SaveKanbanAnalytics(ctx context.Context) (BatchReport, error) {
	return s.RunBatch(ctx, KindKanban)
}

// SaveSprintAnalytics строит и сохраняет снимки незакрытых спринтов.
func (s *Service) SaveSprintAnalytics(ctx context.Context) (BatchReport, error) {
	return s.RunBatch(ctx, KindSprint)
}

// SaveReleaseAnalytics строит и сохраняет снимки незакрытых релизов.
func (s *Service) SaveReleaseAnalytics(ctx context.Context) (BatchReport, error) {
	return s.RunBatch(ctx, KindRelease)
}

// RunBatch выполняет один пакетный проход указанного типа.
// Ошибка чтения прерывает проход. Ошибки записи отдельных снимков
// только логируются и учитываются в отчёте.
func (s *Service) RunBatch(ctx context.Context, kind BatchKind) (BatchReport, error) {
	kind, err := ParseBatchKind(string(kind))
	if err != nil {
		return BatchReport{}, err
	}
	ctx, cancel := s.longOperationContext(ctx)
	defer cancel()
	ctx = logging.WithLogJobKind(ctx, string(kind))

	started := time.Now()
	defer func() {
		metrics.ObserveBatchDuration(string(kind), time.Since(started))
	}()

	var in batchInput
	err = s.trMgr.Do(ctx, func(ctx context.Context) error {
		var err error
		in, err = s.loadBatchInput(ctx, kind)
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "analytics batch aborted on read", "error", err)
		return BatchReport{Kind: kind}, logging.WrapError(ctx, readErr(err))
	}

	limit := s.cfg.Analytics.PersistConcurrency
	var report BatchReport
	switch kind {
	case KindAdmin:
		report = persistAll(ctx, limit, kind, s.buildAdmin(in), s.repo.AddAdminAnalytics,
			func(ctx context.Context, snap domain.AdminSnapshot) context.Context {
				return logging.WithLogTeamID(ctx, snap.TeamID)
			})
	case KindKanban:
		report = persistAll(ctx, limit, kind, s.buildKanban(in), s.repo.AddKanbanAnalytics,
			func(ctx context.Context, snap domain.KanbanSnapshot) context.Context {
				return logging.WithLogTeamID(ctx, snap.TeamID)
			})
	case KindSprint:
		report = persistAll(ctx, limit, kind, s.buildSprints(ctx, in), s.repo.AddSprintAnalytics,
			func(ctx context.Context, snap domain.SprintSnapshot) context.Context {
				return logging.WithLogSprintID(ctx, snap.SprintID)
			})
	case KindRelease:
		report = persistAll(ctx, limit, kind, s.buildReleases(ctx, in), s.repo.AddReleaseAnalytics,
			func(ctx context.Context, snap domain.ReleaseSnapshot) context.Context {
				return logging.WithLogReleaseID(ctx, snap.ReleaseID)
			})
	}

	slog.InfoContext(ctx, "analytics batch finished",
		"built", report.Built,
		"persisted", report.Persisted,
		"failed", report.Failed,
		"duration", time.Since(started).String(),
	)
	return report, nil
}

// loadBatchInput читает всё, что нужно построителям, фиксированным числом запросов.
func (s *Service) loadBatchInput(ctx context.Context, kind BatchKind) (batchInput, error) {
	in := batchInput{
		teamsByID: map[string]domain.Team{},
		tickets:   map[string][]domain.Ticket{},
	}

	projects, err := s.repo.ListActiveProjects(ctx)
	if err != nil {
		return batchInput{}, err
	}
	if len(projects) == 0 {
		return in, nil
	}
	projectIDs := make([]string, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}

	filter := domain.EntityFilter{ProjectIDs: projectIDs}
	if in.teams, err = s.repo.ListTeams(ctx, filter); err != nil {
		return batchInput{}, err
	}
	for _, team := range in.teams {
		in.teamsByID[team.ID] = team
	}

	tickets, err := s.repo.ListTickets(ctx, projectIDs)
	if err != nil {
		return batchInput{}, err
	}
	for _, t := range tickets {
		in.tickets[t.ProjectID] = append(in.tickets[t.ProjectID], t)
	}

	switch kind {
	case KindSprint:
		if in.sprints, err = s.repo.ListSprints(ctx, filter); err != nil {
			return batchInput{}, err
		}
	case KindRelease:
		if in.releases, err = s.repo.ListReleases(ctx, filter); err != nil {
			return batchInput{}, err
		}
	}

	if kind != KindAdmin {
		users, err := s.repo.ListActiveUsers(ctx)
		if err != nil {
			return batchInput{}, err
		}
		in.users = analytics.IndexUsers(users)
	}
	return in, nil
}

func (s *Service) buildAdmin(in batchInput) []domain.AdminSnapshot {
	out := make([]domain.AdminSnapshot, 0, len(in.teams))
	for _, team := range in.teams {
		out = append(out, s.builder.Admin(team, in.tickets[team.ProjectID]))
	}
	return out
}

func (s *Service) buildKanban(in batchInput) []domain.KanbanSnapshot {
	out := make([]domain.KanbanSnapshot, 0, len(in.teams))
	for _, team := range in.teams {
		if team.BoardType != domain.BoardKanban {
			continue
		}
		out = append(out, s.builder.Kanban(team, in.users, in.tickets[team.ProjectID]))
	}
	return out
}

// buildSprints строит снимки незакрытых спринтов. Финальный снимок закрытого
// спринта пишется точечным сохранением при закрытии.
func (s *Service) buildSprints(ctx context.Context, in batchInput) []domain.SprintSnapshot {
	out := make([]domain.SprintSnapshot, 0, len(in.sprints))
	for _, sprint := range in.sprints {
		if sprint.Status == domain.StatusClosed {
			continue
		}
		team, ok := in.teamsByID[sprint.TeamID]
		if !ok {
			slog.DebugContext(ctx, "sprint without team skipped", "sprint_id", sprint.ID, "team_id", sprint.TeamID)
			continue
		}
		out = append(out, s.builder.Sprint(sprint, team, in.users, in.tickets[sprint.ProjectID]))
	}
	return out
}

func (s *Service) buildReleases(ctx context.Context, in batchInput) []domain.ReleaseSnapshot {
	out := make([]domain.ReleaseSnapshot, 0, len(in.releases))
	for _, release := range in.releases {
		if release.Status == domain.StatusClosed {
			continue
		}
		team, ok := in.teamsByID[release.TeamID]
		if !ok {
			slog.DebugContext(ctx, "release without team skipped", "release_id", release.ID, "team_id", release.TeamID)
			continue
		}
		out = append(out, s.builder.Release(release, team, in.users, in.tickets[release.ProjectID]))
	}
	return out
}

// persistAll сохраняет снимки параллельно, не более limit одновременно.
// Ошибка отдельного снимка не останавливает остальные.
func persistAll[T any](
	ctx context.Context,
	limit int,
	kind BatchKind,
	snapshots []T,
	add func(context.Context, T) (T, error),
	scope func(context.Context, T) context.Context,
) BatchReport {
	report := BatchReport{Kind: kind, Built: len(snapshots)}
	metrics.AddSnapshotsBuilt(string(kind), len(snapshots))

	var persisted, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(limit)
	for _, snap := range snapshots {
		g.Go(func() error {
			itemCtx := scope(ctx, snap)
			if _, err := add(itemCtx, snap); err != nil {
				failed.Add(1)
				slog.WarnContext(itemCtx, "failed to persist analytics snapshot", "error", writeErr(err))
				return nil
			}
			persisted.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	report.Persisted = int(persisted.Load())
	report.Failed = int(failed.Load())
	metrics.AddSnapshotsPersisted(string(kind), report.Persisted)
	metrics.AddSnapshotFailures(string(kind), report.Failed)
	return report
}
