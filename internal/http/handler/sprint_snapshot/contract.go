package sprintsnapshot

import (
	"context"

	"scrum-analytics-service/internal/domain"
)

type UseCase interface {
	SaveSprintByID(ctx context.Context, sprintID string) (domain.SprintSnapshot, error)
}

type request struct {
	SprintID string `json:"sprint_id"`
}
