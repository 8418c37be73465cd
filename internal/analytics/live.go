package analytics

import "scrum-analytics-service/internal/domain"

// InjectLivePoints добавляет к истории каждого активного спринта одну точку,
// посчитанную по текущим тикетам. Точка не сохраняется.
//
// Спринты сопоставляются с записями истории по ID. Активность определяется по
// текущему статусу спринта: запись, начатая снимками неактивного спринта,
// получает живую точку и статус ACTIVE. Закрытая запись остаётся закрытой.
// Активные спринты без сохранённых снимков получают запись из одной живой
// точки. Входной срез history не изменяется. Второе значение равно
// количеству добавленных точек.
func InjectLivePoints(
	history []domain.SprintHistory,
	sprints []domain.Sprint,
	build func(domain.Sprint) domain.SprintSnapshot,
) ([]domain.SprintHistory, int) {
	byID := make(map[string]domain.Sprint, len(sprints))
	for _, s := range sprints {
		byID[s.ID] = s
	}

	injected := 0
	seen := make(map[string]struct{}, len(history))
	out := make([]domain.SprintHistory, len(history), len(history)+len(sprints))
	for i, rec := range history {
		out[i] = rec
		seen[rec.SprintID] = struct{}{}
		sprint, ok := byID[rec.SprintID]
		if !ok || sprint.Status != domain.StatusActive || rec.SprintStatus == domain.StatusClosed {
			continue
		}
		live := build(sprint)
		points := make([]domain.HistoryPoint, 0, len(rec.History)+1)
		points = append(points, rec.History...)
		out[i].History = append(points, domain.HistoryPoint{Date: live.Date, Members: live.Members})
		out[i].SprintStatus = domain.StatusActive
		injected++
	}

	for _, sprint := range sprints {
		if sprint.Status != domain.StatusActive {
			continue
		}
		if _, ok := seen[sprint.ID]; ok {
			continue
		}
		seen[sprint.ID] = struct{}{}
		live := build(sprint)
		out = append(out, domain.SprintHistory{
			SprintID:     sprint.ID,
			SprintName:   sprint.Name,
			SprintStatus: sprint.Status,
			SprintStart:  sprint.StartDate,
			SprintEnd:    sprint.EndDate,
			History:      []domain.HistoryPoint{{Date: live.Date, Members: live.Members}},
		})
		injected++
	}
	return out, injected
}
