package adminanalytics

import (
	"context"

	"scrum-analytics-service/internal/domain"
)

type UseCase interface {
	AdminAnalyticsByProject(ctx context.Context, projectID string) ([]domain.AdminHistory, error)
}
