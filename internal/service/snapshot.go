package service

import (
	"context"
	"log/slog"

	"scrum-analytics-service/internal/analytics"
	"scrum-analytics-service/internal/domain"
	"scrum-analytics-service/internal/logging"
	"scrum-analytics-service/internal/metrics"
)

// SaveSpecificSprintAnalytics строит и сохраняет снимок одного спринта,
// например при его закрытии. Ошибка записи возвращается вызывающему.
func (s *Service) SaveSpecificSprintAnalytics(
	ctx context.Context,
	sprint domain.Sprint,
	team domain.Team,
	tickets []domain.Ticket,
) (domain.SprintSnapshot, error) {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()
	ctx = logging.WithLogSprintID(ctx, sprint.ID)

	users, err := s.repo.ListActiveUsers(ctx)
	if err != nil {
		return domain.SprintSnapshot{}, readErr(err)
	}
	snap := s.builder.Sprint(sprint, team, analytics.IndexUsers(users), tickets)
	metrics.AddSnapshotsBuilt(string(KindSprint), 1)

	saved, err := s.repo.AddSprintAnalytics(ctx, snap)
	if err != nil {
		metrics.AddSnapshotFailures(string(KindSprint), 1)
		slog.ErrorContext(ctx, "failed to save sprint snapshot", "error", err)
		return domain.SprintSnapshot{}, logging.WrapError(ctx, writeErr(err))
	}
	metrics.AddSnapshotsPersisted(string(KindSprint), 1)
	return saved, nil
}

// SaveSpecificReleaseAnalytics строит и сохраняет снимок одного релиза.
func (s *Service) SaveSpecificReleaseAnalytics(
	ctx context.Context,
	release domain.Release,
	team domain.Team,
	tickets []domain.Ticket,
) (domain.ReleaseSnapshot, error) {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()
	ctx = logging.WithLogReleaseID(ctx, release.ID)

	users, err := s.repo.ListActiveUsers(ctx)
	if err != nil {
		return domain.ReleaseSnapshot{}, readErr(err)
	}
	snap := s.builder.Release(release, team, analytics.IndexUsers(users), tickets)
	metrics.AddSnapshotsBuilt(string(KindRelease), 1)

	saved, err := s.repo.AddReleaseAnalytics(ctx, snap)
	if err != nil {
		metrics.AddSnapshotFailures(string(KindRelease), 1)
		slog.ErrorContext(ctx, "failed to save release snapshot", "error", err)
		return domain.ReleaseSnapshot{}, logging.WrapError(ctx, writeErr(err))
	}
	metrics.AddSnapshotsPersisted(string(KindRelease), 1)
	return saved, nil
}

// SaveSprintByID загружает спринт, его команду и тикеты проекта и сохраняет снимок.
func (s *Service) SaveSprintByID(ctx context.Context, sprintID string) (domain.SprintSnapshot, error) {
	if err := ValidateID("sprint_id", sprintID); err != nil {
		return domain.SprintSnapshot{}, err
	}
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()

	var (
		sprint  domain.Sprint
		team    domain.Team
		tickets []domain.Ticket
	)
	err := s.trMgr.Do(ctx, func(ctx context.Context) error {
		sprints, err := s.repo.ListSprints(ctx, domain.EntityFilter{IDs: []string{sprintID}})
		if err != nil {
			return err
		}
		if len(sprints) == 0 {
			return domain.ErrSprintNotFound
		}
		sprint = sprints[0]
		if team, err = s.loadTeam(ctx, sprint.TeamID); err != nil {
			return err
		}
		tickets, err = s.repo.ListTickets(ctx, []string{sprint.ProjectID})
		return err
	})
	if err != nil {
		return domain.SprintSnapshot{}, readErr(err)
	}
	return s.SaveSpecificSprintAnalytics(ctx, sprint, team, tickets)
}

// SaveReleaseByID загружает релиз, его команду и тикеты проекта и сохраняет снимок.
func (s *Service) SaveReleaseByID(ctx context.Context, releaseID string) (domain.ReleaseSnapshot, error) {
	if err := ValidateID("release_id", releaseID); err != nil {
		return domain.ReleaseSnapshot{}, err
	}
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()

	var (
		release domain.Release
		team    domain.Team
		tickets []domain.Ticket
	)
	err := s.trMgr.Do(ctx, func(ctx context.Context) error {
		releases, err := s.repo.ListReleases(ctx, domain.EntityFilter{IDs: []string{releaseID}})
		if err != nil {
			return err
		}
		if len(releases) == 0 {
			return domain.ErrReleaseNotFound
		}
		release = releases[0]
		if team, err = s.loadTeam(ctx, release.TeamID); err != nil {
			return err
		}
		tickets, err = s.repo.ListTickets(ctx, []string{release.ProjectID})
		return err
	})
	if err != nil {
		return domain.ReleaseSnapshot{}, readErr(err)
	}
	return s.SaveSpecificReleaseAnalytics(ctx, release, team, tickets)
}

// loadTeam возвращает команду по ID.
func (s *Service) loadTeam(ctx context.Context, teamID string) (domain.Team, error) {
	teams, err := s.repo.ListTeams(ctx, domain.EntityFilter{IDs: []string{teamID}})
	if err != nil {
		return domain.Team{}, err
	}
	if len(teams) == 0 {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	return teams[0], nil
}
