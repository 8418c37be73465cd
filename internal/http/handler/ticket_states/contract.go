package ticketstates

import (
	"context"

	"scrum-analytics-service/internal/domain"
)

type UseCase interface {
	TicketStatesByTeam(ctx context.Context, teamID string) ([]domain.SprintTicketStates, error)
}
