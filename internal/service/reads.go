package service

import (
	"context"

	"scrum-analytics-service/internal/analytics"
	"scrum-analytics-service/internal/domain"
	"scrum-analytics-service/internal/logging"
	"scrum-analytics-service/internal/metrics"
)

// AdminAnalytics возвращает историю административных снимков команд проекта.
// Отсутствие снимков даёт пустой срез без ошибки.
func (s *Service) AdminAnalytics(ctx context.Context, project domain.Project) ([]domain.AdminHistory, error) {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()

	snaps, err := s.repo.ListAdminAnalytics(ctx, domain.SnapshotQuery{ProjectIDs: []string{project.ID}})
	if err != nil {
		return nil, readErr(err)
	}
	return analytics.AssembleAdminHistory(snaps), nil
}

// KanbanAnalytics возвращает историю снимков Kanban-команды.
func (s *Service) KanbanAnalytics(ctx context.Context, team domain.Team) ([]domain.KanbanHistory, error) {
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()

	snaps, err := s.repo.ListKanbanAnalytics(ctx, domain.SnapshotQuery{TeamIDs: []string{team.ID}})
	if err != nil {
		return nil, readErr(err)
	}
	return analytics.AssembleKanbanHistory(snaps), nil
}

// SprintAnalytics собирает историю спринтов команды и добавляет к активным
// спринтам несохраняемую точку по текущим тикетам.
func (s *Service) SprintAnalytics(
	ctx context.Context,
	team domain.Team,
	sprints []domain.Sprint,
	tickets []domain.Ticket,
) ([]domain.SprintHistory, error) {
	if len(sprints) == 0 {
		return []domain.SprintHistory{}, nil
	}
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()

	snaps, err := s.repo.ListSprintAnalytics(ctx, domain.SnapshotQuery{ScopeIDs: sprintIDs(sprints)})
	if err != nil {
		return nil, readErr(err)
	}
	history := analytics.AssembleSprintHistory(snaps)

	if !hasActive(sprints) {
		return history, nil
	}
	users, err := s.repo.ListActiveUsers(ctx)
	if err != nil {
		return nil, readErr(err)
	}
	index := analytics.IndexUsers(users)
	history, injected := analytics.InjectLivePoints(history, sprints, func(sprint domain.Sprint) domain.SprintSnapshot {
		return s.builder.Sprint(sprint, team, index, tickets)
	})
	metrics.AddLivePoints(injected)
	return history, nil
}

// ReleaseAnalytics возвращает историю снимков релизов.
func (s *Service) ReleaseAnalytics(ctx context.Context, team domain.Team, releases []domain.Release) ([]domain.ReleaseHistory, error) {
	if len(releases) == 0 {
		return []domain.ReleaseHistory{}, nil
	}
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()
	ctx = logging.WithLogTeamID(ctx, team.ID)

	ids := make([]string, 0, len(releases))
	for _, r := range releases {
		ids = append(ids, r.ID)
	}
	snaps, err := s.repo.ListReleaseAnalytics(ctx, domain.SnapshotQuery{ScopeIDs: ids})
	if err != nil {
		return nil, readErr(err)
	}
	return analytics.AssembleReleaseHistory(snaps), nil
}

// TicketStates возвращает текущее распределение тикетов команды по спринтам без сохранения.
func (s *Service) TicketStates(team domain.Team, sprints []domain.Sprint, tickets []domain.Ticket) []domain.SprintTicketStates {
	return analytics.TicketStates(s.builder.States(), team, sprints, tickets)
}

// SprintAnalyticsByTeam загружает спринты и тикеты команды и возвращает историю спринтов.
func (s *Service) SprintAnalyticsByTeam(ctx context.Context, teamID string) ([]domain.SprintHistory, error) {
	team, sprints, tickets, err := s.loadTeamSprints(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.SprintAnalytics(logging.WithLogTeamID(ctx, teamID), team, sprints, tickets)
}

// ReleaseAnalyticsByTeam загружает релизы команды и возвращает их историю.
func (s *Service) ReleaseAnalyticsByTeam(ctx context.Context, teamID string) ([]domain.ReleaseHistory, error) {
	if err := ValidateID("team_id", teamID); err != nil {
		return nil, err
	}
	var (
		team     domain.Team
		releases []domain.Release
	)
	err := s.trMgr.Do(ctx, func(ctx context.Context) error {
		var err error
		if team, err = s.loadTeam(ctx, teamID); err != nil {
			return err
		}
		releases, err = s.repo.ListReleases(ctx, domain.EntityFilter{TeamIDs: []string{teamID}})
		return err
	})
	if err != nil {
		return nil, readErr(err)
	}
	return s.ReleaseAnalytics(ctx, team, releases)
}

// KanbanAnalyticsByTeam возвращает историю Kanban-команды по её ID.
func (s *Service) KanbanAnalyticsByTeam(ctx context.Context, teamID string) ([]domain.KanbanHistory, error) {
	if err := ValidateID("team_id", teamID); err != nil {
		return nil, err
	}
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, readErr(err)
	}
	return s.KanbanAnalytics(logging.WithLogTeamID(ctx, teamID), team)
}

// AdminAnalyticsByProject возвращает административную историю проекта по его ID.
func (s *Service) AdminAnalyticsByProject(ctx context.Context, projectID string) ([]domain.AdminHistory, error) {
	if err := ValidateID("project_id", projectID); err != nil {
		return nil, err
	}
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, readErr(err)
	}
	return s.AdminAnalytics(logging.WithLogProjectID(ctx, projectID), project)
}

// TicketStatesByTeam возвращает текущее распределение тикетов спринтов команды.
func (s *Service) TicketStatesByTeam(ctx context.Context, teamID string) ([]domain.SprintTicketStates, error) {
	team, sprints, tickets, err := s.loadTeamSprints(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.TicketStates(team, sprints, tickets), nil
}

// loadTeamSprints читает команду, её спринты и тикеты проекта в одной транзакции.
func (s *Service) loadTeamSprints(ctx context.Context, teamID string) (domain.Team, []domain.Sprint, []domain.Ticket, error) {
	if err := ValidateID("team_id", teamID); err != nil {
		return domain.Team{}, nil, nil, err
	}
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()

	var (
		team    domain.Team
		sprints []domain.Sprint
		tickets []domain.Ticket
	)
	err := s.trMgr.Do(ctx, func(ctx context.Context) error {
		var err error
		if team, err = s.loadTeam(ctx, teamID); err != nil {
			return err
		}
		if sprints, err = s.repo.ListSprints(ctx, domain.EntityFilter{TeamIDs: []string{teamID}}); err != nil {
			return err
		}
		tickets, err = s.repo.ListTickets(ctx, []string{team.ProjectID})
		return err
	})
	if err != nil {
		return domain.Team{}, nil, nil, readErr(err)
	}
	return team, sprints, tickets, nil
}

func sprintIDs(sprints []domain.Sprint) []string {
	ids := make([]string, 0, len(sprints))
	for _, sp := range sprints {
		ids = append(ids, sp.ID)
	}
	return ids
}

func hasActive(sprints []domain.Sprint) bool {
	for _, sp := range sprints {
		if sp.Status == domain.StatusActive {
			return true
		}
	}
	return false
}
