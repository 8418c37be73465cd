package releasesnapshot

import (
	"context"

	"scrum-analytics-service/internal/domain"
)

type UseCase interface {
	SaveReleaseByID(ctx context.Context, releaseID string) (domain.ReleaseSnapshot, error)
}

type request struct {
	ReleaseID string `json:"release_id"`
}
