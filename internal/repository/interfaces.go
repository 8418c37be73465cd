package repository

import (
	"context"

	"scrum-analytics-service/internal/domain"
)

// Repository объединяет все операции хранилища, которые нужны аналитике.
type Repository interface {
	TrackerRepository
	SnapshotRepository
}

// TrackerRepository читает данные трекера. Аналитика их никогда не изменяет.
type TrackerRepository interface {
	ListActiveProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, projectID string) (domain.Project, error)
	ListTeams(ctx context.Context, filter domain.EntityFilter) ([]domain.Team, error)
	ListTickets(ctx context.Context, projectIDs []string) ([]domain.Ticket, error)
	ListSprints(ctx context.Context, filter domain.EntityFilter) ([]domain.Sprint, error)
	ListReleases(ctx context.Context, filter domain.EntityFilter) ([]domain.Release, error)
	ListActiveUsers(ctx context.Context) ([]domain.User, error)
}

// SnapshotRepository добавляет и читает снимки. Снимки только добавляются.
type SnapshotRepository interface {
	AddAdminAnalytics(ctx context.Context, snap domain.AdminSnapshot) (domain.AdminSnapshot, error)
	AddKanbanAnalytics(ctx context.Context, snap domain.KanbanSnapshot) (domain.KanbanSnapshot, error)
	AddSprintAnalytics(ctx context.Context, snap domain.SprintSnapshot) (domain.SprintSnapshot, error)
	AddReleaseAnalytics(ctx context.Context, snap domain.ReleaseSnapshot) (domain.ReleaseSnapshot, error)

	ListAdminAnalytics(ctx context.Context, query domain.SnapshotQuery) ([]domain.AdminSnapshot, error)
	ListKanbanAnalytics(ctx context.Context, query domain.SnapshotQuery) ([]domain.KanbanSnapshot, error)
	ListSprintAnalytics(ctx context.Context, query domain.SnapshotQuery) ([]domain.SprintSnapshot, error)
	ListReleaseAnalytics(ctx context.Context, query domain.SnapshotQuery) ([]domain.ReleaseSnapshot, error)
}

// Locker выполняет функцию под распределённой блокировкой.
type Locker interface {
	WithAdvisoryLock(ctx context.Context, key int64, fn func(context.Context) error) (bool, error)
}

// HealthChecker описывает метод проверки соединения.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
