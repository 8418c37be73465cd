package kanbananalytics

import (
	"context"

	"scrum-analytics-service/internal/domain"
)

type UseCase interface {
	KanbanAnalyticsByTeam(ctx context.Context, teamID string) ([]domain.KanbanHistory, error)
}
