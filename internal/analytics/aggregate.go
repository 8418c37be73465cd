// Package analytics строит снимки аналитики и собирает из них историю.
// Все функции пакета чистые: ввод-вывод выполняет слой сервиса.
package analytics

import (
	"time"

	"scrum-analytics-service/internal/domain"
)

// TicketFilter отбирает тикеты, попадающие в область снимка.
type TicketFilter func(domain.Ticket) bool

// AllTickets учитывает все тикеты команды (Kanban и административный снимок).
func AllTickets(domain.Ticket) bool {
	return true
}

// InSprint отбирает тикеты спринта.
func InSprint(sprintID string) TicketFilter {
	return func(t domain.Ticket) bool {
		return t.InSprint(sprintID)
	}
}

// InRelease отбирает тикеты релиза.
func InRelease(releaseID string) TicketFilter {
	return func(t domain.Ticket) bool {
		return t.InRelease(releaseID)
	}
}

// IndexUsers строит индекс пользователей по ID.
func IndexUsers(users []domain.User) map[string]domain.User {
	index := make(map[string]domain.User, len(users))
	for _, u := range users {
		index[u.ID] = u
	}
	return index
}

// AggregateMembers считает для каждого участника команды количество тикетов и сумму
// оценок по каждому состоянию из states. Порядок результата совпадает с порядком
// участников, повторные ID учитываются один раз. Тикеты, назначенные не участникам,
// и тикеты с состоянием вне states пропускаются.
func AggregateMembers(
	states []domain.TicketState,
	members []string,
	users map[string]domain.User,
	tickets []domain.Ticket,
	filter TicketFilter,
) []domain.MemberDistribution {
	index := make(map[string]int, len(members))
	result := make([]domain.MemberDistribution, 0, len(members))
	for _, id := range members {
		if _, dup := index[id]; dup {
			continue
		}
		index[id] = len(result)
		result = append(result, newDistribution(states, id, users[id]))
	}

	for _, ticket := range tickets {
		i, ok := index[ticket.Assignee]
		if !ok {
			continue
		}
		if filter != nil && !filter(ticket) {
			continue
		}
		dist := &result[i]
		if _, known := dist.States[ticket.State]; !known {
			continue
		}
		dist.States[ticket.State]++
		dist.Points[ticket.State] += ticket.PointsValue()
	}
	return result
}

func newDistribution(states []domain.TicketState, id string, user domain.User) domain.MemberDistribution {
	dist := domain.MemberDistribution{
		ID:        id,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		States:    make(map[domain.TicketState]int, len(states)),
		Points:    make(map[domain.TicketState]float64, len(states)),
	}
	for _, s := range states {
		dist.States[s] = 0
		dist.Points[s] = 0
	}
	return dist
}

// BuildFlowEntry суммирует оценки всех участников по каждому состоянию.
func BuildFlowEntry(states []domain.TicketState, members []domain.MemberDistribution, date time.Time) domain.FlowEntry {
	entry := domain.FlowEntry{
		Date:   date,
		Points: make(map[domain.TicketState]float64, len(states)),
	}
	for _, s := range states {
		entry.Points[s] = 0
	}
	for _, m := range members {
		for _, s := range states {
			entry.Points[s] += m.Points[s]
		}
	}
	return entry
}
