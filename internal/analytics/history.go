package analytics

import "scrum-analytics-service/internal/domain"

// assemble группирует снимки по ID сущности. Порядок результата совпадает с порядком первого
// появления ID во входе. Вход должен быть отсортирован по idate по возрастанию,
// иначе нарушается порядок точек истории и монотонность статуса.
func assemble[S, R any](snapshots []S, key func(S) string, start func(S) R, merge func(*R, S)) []R {
	index := make(map[string]int)
	out := make([]R, 0)
	for _, s := range snapshots {
		id := key(s)
		if i, ok := index[id]; ok {
			merge(&out[i], s)
			continue
		}
		index[id] = len(out)
		out = append(out, start(s))
	}
	return out
}

// closedSticks возвращает новый статус записи истории: только CLOSED может
// перезаписать текущий статус.
func closedSticks(current, next domain.Status) domain.Status {
	if next == domain.StatusClosed {
		return domain.StatusClosed
	}
	return current
}

// AssembleSprintHistory собирает историю спринтов из сохранённых снимков.
func AssembleSprintHistory(snapshots []domain.SprintSnapshot) []domain.SprintHistory {
	return assemble(snapshots,
		func(s domain.SprintSnapshot) string { return s.SprintID },
		func(s domain.SprintSnapshot) domain.SprintHistory {
			return domain.SprintHistory{
				SprintID:     s.SprintID,
				SprintName:   s.SprintName,
				SprintStatus: s.SprintStatus,
				SprintStart:  s.SprintStart,
				SprintEnd:    s.SprintEnd,
				History:      []domain.HistoryPoint{{Date: s.Date, Members: s.Members}},
			}
		},
		func(r *domain.SprintHistory, s domain.SprintSnapshot) {
			r.History = append(r.History, domain.HistoryPoint{Date: s.Date, Members: s.Members})
			r.SprintStatus = closedSticks(r.SprintStatus, s.SprintStatus)
		},
	)
}

// AssembleReleaseHistory собирает историю релизов и их диаграммы потока.
func AssembleReleaseHistory(snapshots []domain.ReleaseSnapshot) []domain.ReleaseHistory {
	return assemble(snapshots,
		func(s domain.ReleaseSnapshot) string { return s.ReleaseID },
		func(s domain.ReleaseSnapshot) domain.ReleaseHistory {
			return domain.ReleaseHistory{
				ReleaseID:             s.ReleaseID,
				ReleaseName:           s.ReleaseName,
				ReleaseStatus:         s.ReleaseStatus,
				History:               []domain.HistoryPoint{{Date: s.Date, Members: s.Members}},
				CumulativeFlowDiagram: append([]domain.FlowEntry{}, s.CumulativeFlowDiagram...),
			}
		},
		func(r *domain.ReleaseHistory, s domain.ReleaseSnapshot) {
			r.History = append(r.History, domain.HistoryPoint{Date: s.Date, Members: s.Members})
			r.CumulativeFlowDiagram = append(r.CumulativeFlowDiagram, s.CumulativeFlowDiagram...)
			r.ReleaseStatus = closedSticks(r.ReleaseStatus, s.ReleaseStatus)
		},
	)
}

// AssembleKanbanHistory собирает историю Kanban-команд.
func AssembleKanbanHistory(snapshots []domain.KanbanSnapshot) []domain.KanbanHistory {
	return assemble(snapshots,
		func(s domain.KanbanSnapshot) string { return s.TeamID },
		func(s domain.KanbanSnapshot) domain.KanbanHistory {
			return domain.KanbanHistory{
				TeamID:                s.TeamID,
				TeamName:              s.TeamName,
				History:               []domain.HistoryPoint{{Date: s.Date, Members: s.Members}},
				CumulativeFlowDiagram: append([]domain.FlowEntry{}, s.CumulativeFlowDiagram...),
			}
		},
		func(r *domain.KanbanHistory, s domain.KanbanSnapshot) {
			r.History = append(r.History, domain.HistoryPoint{Date: s.Date, Members: s.Members})
			r.CumulativeFlowDiagram = append(r.CumulativeFlowDiagram, s.CumulativeFlowDiagram...)
		},
	)
}

// AssembleAdminHistory собирает историю закрытых тикетов по командам проекта.
func AssembleAdminHistory(snapshots []domain.AdminSnapshot) []domain.AdminHistory {
	point := func(s domain.AdminSnapshot) domain.DonePoint {
		return domain.DonePoint{Date: s.Date, DoneCount: s.DoneCount, TotalCount: s.TotalCount}
	}
	return assemble(snapshots,
		func(s domain.AdminSnapshot) string { return s.TeamID },
		func(s domain.AdminSnapshot) domain.AdminHistory {
			return domain.AdminHistory{
				TeamID:    s.TeamID,
				TeamName:  s.TeamName,
				ProjectID: s.ProjectID,
				History:   []domain.DonePoint{point(s)},
			}
		},
		func(r *domain.AdminHistory, s domain.AdminSnapshot) {
			r.History = append(r.History, point(s))
		},
	)
}
