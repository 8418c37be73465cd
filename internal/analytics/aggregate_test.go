package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scrum-analytics-service/internal/domain"
)

func pts(v float64) *float64 {
	return &v
}

func scenarioTickets() []domain.Ticket {
	return []domain.Ticket{
		{ID: "T1", Assignee: "A", State: domain.StateDone, Points: pts(5)},
		{ID: "T2", Assignee: "A", State: domain.StateNew, Points: pts(2)},
		{ID: "T3", Assignee: "B", State: domain.StateDone, Points: pts(3)},
	}
}

func TestAggregateMembers_TwoMembersThreeTickets(t *testing.T) {
	t.Parallel()
	states := domain.TicketStates()

	members := AggregateMembers(states, []string{"A", "B"}, nil, scenarioTickets(), AllTickets)
	require.Len(t, members, 2)

	a, b := members[0], members[1]
	require.Equal(t, "A", a.ID)
	require.Equal(t, map[domain.TicketState]int{
		domain.StateNew: 1, domain.StateInDevelopment: 0, domain.StateCodeReview: 0,
		domain.StateReadyForTest: 0, domain.StateInTest: 0, domain.StateDone: 1,
	}, a.States)
	require.Equal(t, 5.0, a.Points[domain.StateDone])
	require.Equal(t, 2.0, a.Points[domain.StateNew])

	require.Equal(t, "B", b.ID)
	require.Equal(t, 1, b.States[domain.StateDone])
	require.Equal(t, 0, b.States[domain.StateNew])
	require.Equal(t, 3.0, b.Points[domain.StateDone])

	flow := BuildFlowEntry(states, members, time.Time{})
	require.Equal(t, 8.0, flow.Points[domain.StateDone])
	require.Equal(t, 2.0, flow.Points[domain.StateNew])
	for _, s := range []domain.TicketState{domain.StateInDevelopment, domain.StateCodeReview, domain.StateReadyForTest, domain.StateInTest} {
		require.Zero(t, flow.Points[s])
	}
}

func TestAggregateMembers_CompleteKeySetForEmptyMembers(t *testing.T) {
	t.Parallel()
	states := domain.TicketStates()

	members := AggregateMembers(states, []string{"X", "Y", "Z"}, nil, nil, AllTickets)
	require.Len(t, members, 3)
	for _, m := range members {
		require.Len(t, m.States, len(states))
		require.Len(t, m.Points, len(states))
		for _, s := range states {
			require.Contains(t, m.States, s)
			require.Contains(t, m.Points, s)
			require.Zero(t, m.States[s])
			require.Zero(t, m.Points[s])
		}
	}
}

func TestAggregateMembers_ConservesCountsAndPoints(t *testing.T) {
	t.Parallel()
	states := domain.TicketStates()
	tickets := []domain.Ticket{
		{Assignee: "A", State: domain.StateInTest, Points: pts(1), Sprints: []string{"s1"}},
		{Assignee: "A", State: domain.StateCodeReview, Points: pts(8), Sprints: []string{"s1", "s2"}},
		{Assignee: "B", State: domain.StateNew, Points: pts(3), Sprints: []string{"s2"}},
		{Assignee: "C", State: domain.StateNew, Points: pts(13), Sprints: []string{"s1"}},
		{Assignee: "B", State: domain.StateDone, Points: nil, Sprints: []string{"s1"}},
	}
	filter := InSprint("s1")

	members := AggregateMembers(states, []string{"A", "B"}, nil, tickets, filter)

	var count int
	var sum float64
	for _, m := range members {
		for _, s := range states {
			count += m.States[s]
			sum += m.Points[s]
		}
	}
	// C не в команде, тикет B из s2 не проходит фильтр.
	require.Equal(t, 3, count)
	require.Equal(t, 9.0, sum)
}

func TestAggregateMembers_NilPointsCountAsZero(t *testing.T) {
	t.Parallel()
	tickets := []domain.Ticket{{Assignee: "A", State: domain.StateInDevelopment}}

	members := AggregateMembers(domain.TicketStates(), []string{"A"}, nil, tickets, nil)
	require.Equal(t, 1, members[0].States[domain.StateInDevelopment])
	require.Zero(t, members[0].Points[domain.StateInDevelopment])
}

func TestAggregateMembers_SkipsUnknownStateAndDuplicateMembers(t *testing.T) {
	t.Parallel()
	tickets := []domain.Ticket{
		{Assignee: "A", State: domain.TicketState(42), Points: pts(1)},
		{Assignee: "A", State: domain.StateDone, Points: pts(2)},
	}

	members := AggregateMembers(domain.TicketStates(), []string{"A", "A"}, nil, tickets, AllTickets)
	require.Len(t, members, 1)
	require.Len(t, members[0].States, len(domain.TicketStates()))
	require.Equal(t, 1, members[0].States[domain.StateDone])
}

func TestAggregateMembers_DenormalizesUsers(t *testing.T) {
	t.Parallel()
	users := IndexUsers([]domain.User{{ID: "A", FirstName: "Ann", LastName: "Lee", Username: "alee"}})

	members := AggregateMembers(domain.TicketStates(), []string{"A", "ghost"}, users, nil, AllTickets)
	require.Equal(t, "Ann", members[0].FirstName)
	require.Equal(t, "Lee", members[0].LastName)
	require.Equal(t, "alee", members[0].Username)
	require.Equal(t, "ghost", members[1].ID)
	require.Empty(t, members[1].Username)
}

func TestBuildFlowEntry_IsSumOfMemberPoints(t *testing.T) {
	t.Parallel()
	states := domain.TicketStates()
	tickets := []domain.Ticket{
		{Assignee: "A", State: domain.StateNew, Points: pts(1.5)},
		{Assignee: "B", State: domain.StateNew, Points: pts(2.5)},
		{Assignee: "B", State: domain.StateInTest, Points: pts(4)},
		{Assignee: "C", State: domain.StateReadyForTest, Points: pts(7)},
	}
	members := AggregateMembers(states, []string{"A", "B", "C"}, nil, tickets, AllTickets)
	date := time.Date(2024, time.April, 12, 19, 9, 0, 0, time.UTC)

	entry := BuildFlowEntry(states, members, date)
	require.Equal(t, date, entry.Date)
	require.Len(t, entry.Points, len(states))
	for _, s := range states {
		var want float64
		for _, m := range members {
			want += m.Points[s]
		}
		require.Equal(t, want, entry.Points[s], s.String())
	}
}

func TestBuildFlowEntry_NoMembers(t *testing.T) {
	t.Parallel()
	entry := BuildFlowEntry(domain.TicketStates(), nil, time.Time{})
	require.Len(t, entry.Points, len(domain.TicketStates()))
}
