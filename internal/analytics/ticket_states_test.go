package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scrum-analytics-service/internal/domain"
)

func TestTicketStates_PerSprintBreakdown(t *testing.T) {
	t.Parallel()
	team := testTeam()
	sprints := []domain.Sprint{
		{ID: "s1", Name: "One", Status: domain.StatusClosed},
		{ID: "s2", Name: "Two", Status: domain.StatusActive},
	}
	tickets := []domain.Ticket{
		{Assignee: "A", State: domain.StateDone, Points: pts(5), Sprints: []string{"s1"}},
		{Assignee: "A", State: domain.StateInDevelopment, Points: pts(2), Sprints: []string{"s2"}},
		{Assignee: "B", State: domain.StateInDevelopment, Sprints: []string{"s2"}},
		{Assignee: "ghost", State: domain.StateNew, Points: pts(1), Sprints: []string{"s2"}},
	}

	result := TicketStates(domain.TicketStates(), team, sprints, tickets)
	require.Len(t, result, 2)

	require.Equal(t, "s1", result[0].SprintID)
	require.Equal(t, domain.StatusClosed, result[0].SprintStatus)
	require.Equal(t, 1, result[0].Members[0].States[domain.StateDone])
	require.Zero(t, result[0].Members[1].States[domain.StateDone])

	require.Equal(t, "s2", result[1].SprintID)
	require.Equal(t, 2.0, result[1].Members[0].Points[domain.StateInDevelopment])
	require.Equal(t, 1, result[1].Members[1].States[domain.StateInDevelopment])
	require.Zero(t, result[1].Members[1].Points[domain.StateInDevelopment])
	require.Len(t, result[1].Members, 2)
}

func TestTicketStates_NoSprints(t *testing.T) {
	t.Parallel()
	result := TicketStates(domain.TicketStates(), testTeam(), nil, nil)
	require.NotNil(t, result)
	require.Empty(t, result)
}
