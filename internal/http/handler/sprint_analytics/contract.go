package sprintanalytics

import (
	"context"

	"scrum-analytics-service/internal/domain"
)

type UseCase interface {
	SprintAnalyticsByTeam(ctx context.Context, teamID string) ([]domain.SprintHistory, error)
}
