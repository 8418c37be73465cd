package analytics

import "scrum-analytics-service/internal/domain"

// TicketStates считает текущее распределение тикетов по участникам для каждого
// спринта команды. В отличие от снимка спринта не денормализует пользователей и
// ничего не сохраняет.
func TicketStates(
	states []domain.TicketState,
	team domain.Team,
	sprints []domain.Sprint,
	tickets []domain.Ticket,
) []domain.SprintTicketStates {
	result := make([]domain.SprintTicketStates, 0, len(sprints))
	for _, sprint := range sprints {
		members := make([]domain.MemberTicketStates, 0, len(team.Members))
		for _, memberID := range team.Members {
			member := domain.MemberTicketStates{
				ID:     memberID,
				States: make(map[domain.TicketState]int, len(states)),
				Points: make(map[domain.TicketState]float64, len(states)),
			}
			for _, s := range states {
				member.States[s] = 0
				member.Points[s] = 0
			}
			for _, ticket := range tickets {
				if ticket.Assignee != memberID || !ticket.InSprint(sprint.ID) {
					continue
				}
				if _, ok := member.States[ticket.State]; !ok {
					continue
				}
				member.States[ticket.State]++
				member.Points[ticket.State] += ticket.PointsValue()
			}
			members = append(members, member)
		}
		result = append(result, domain.SprintTicketStates{
			SprintID:     sprint.ID,
			SprintName:   sprint.Name,
			SprintStatus: sprint.Status,
			Members:      members,
		})
	}
	return result
}
