package releaseanalytics

import (
	"context"

	"scrum-analytics-service/internal/domain"
)

type UseCase interface {
	ReleaseAnalyticsByTeam(ctx context.Context, teamID string) ([]domain.ReleaseHistory, error)
}
