package domain

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// MemberDistribution хранит количество тикетов и сумму оценок участника по состояниям.
// Имя и логин денормализуются на момент снимка, чтобы история не зависела от
// последующих изменений пользователя.
type MemberDistribution struct {
	ID        string                  `json:"id"`
	FirstName string                  `json:"fname"`
	LastName  string                  `json:"lname"`
	Username  string                  `json:"username"`
	States    map[TicketState]int     `json:"states"`
	Points    map[TicketState]float64 `json:"points"`
}

// FlowEntry хранит одну точку накопительной диаграммы потока.
type FlowEntry struct {
	Date   time.Time
	Points map[TicketState]float64
}

// MarshalJSON разворачивает точку в плоский объект {"date": ..., "<state>": points}.
func (e FlowEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Points)+1)
	out["date"] = e.Date
	for state, points := range e.Points {
		out[state.String()] = points
	}
	return json.Marshal(out)
}

// UnmarshalJSON читает плоский объект, записанный MarshalJSON.
func (e *FlowEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	entry := FlowEntry{Points: make(map[TicketState]float64, len(raw))}
	for key, value := range raw {
		if key == "date" {
			if err := json.Unmarshal(value, &entry.Date); err != nil {
				return fmt.Errorf("flow entry date: %w", err)
			}
			continue
		}
		state, err := ParseTicketState(key)
		if err != nil {
			continue
		}
		var points float64
		if err := json.Unmarshal(value, &points); err != nil {
			return fmt.Errorf("flow entry %s: %w", key, err)
		}
		entry.Points[state] = points
	}
	*e = entry
	return nil
}

// AdminSnapshot описывает снимок уровня проекта: число закрытых тикетов команды.
type AdminSnapshot struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	IDate      time.Time `json:"idate"`
	ProjectID  string    `json:"projectId"`
	TeamID     string    `json:"teamId"`
	TeamName   string    `json:"teamName"`
	DoneCount  int       `json:"doneCount"`
	TotalCount int       `json:"totalCount"`
}

// KanbanSnapshot описывает снимок Kanban-команды.
type KanbanSnapshot struct {
	ID                    string               `json:"id"`
	Date                  string               `json:"date"`
	IDate                 time.Time            `json:"idate"`
	ProjectID             string               `json:"projectId"`
	TeamID                string               `json:"teamId"`
	TeamName              string               `json:"teamName"`
	Members               []MemberDistribution `json:"members"`
	CumulativeFlowDiagram []FlowEntry          `json:"cumulativeflowdiagram"`
}

// SprintSnapshot описывает снимок спринта. Диаграмма потока не хранится,
// burndown строится клиентом по истории участников.
type SprintSnapshot struct {
	ID           string               `json:"id"`
	Date         string               `json:"date"`
	IDate        time.Time            `json:"idate"`
	ProjectID    string               `json:"projectId"`
	TeamID       string               `json:"teamId"`
	SprintID     string               `json:"sprintId"`
	SprintName   string               `json:"sprintName"`
	SprintStatus Status               `json:"sprintStatus"`
	SprintStart  *time.Time           `json:"sprintStart,omitempty"`
	SprintEnd    *time.Time           `json:"sprintEnd,omitempty"`
	Members      []MemberDistribution `json:"members"`
}

// ReleaseSnapshot описывает снимок релиза.
type ReleaseSnapshot struct {
	ID                    string               `json:"id"`
	Date                  string               `json:"date"`
	IDate                 time.Time            `json:"idate"`
	ProjectID             string               `json:"projectId"`
	TeamID                string               `json:"teamId"`
	ReleaseID             string               `json:"releaseId"`
	ReleaseName           string               `json:"releaseName"`
	ReleaseStatus         Status               `json:"releaseStatus"`
	Members               []MemberDistribution `json:"members"`
	CumulativeFlowDiagram []FlowEntry          `json:"cumulativeflowdiagram"`
}

// HistoryPoint хранит одну точку истории участников.
type HistoryPoint struct {
	Date    string               `json:"date"`
	Members []MemberDistribution `json:"members"`
}

// DonePoint хранит одну точку истории административного снимка.
type DonePoint struct {
	Date       string `json:"date"`
	DoneCount  int    `json:"doneCount"`
	TotalCount int    `json:"totalCount"`
}

// AdminHistory содержит историю команды в административном отчёте проекта.
type AdminHistory struct {
	TeamID    string      `json:"teamId"`
	TeamName  string      `json:"teamName"`
	ProjectID string      `json:"projectId"`
	History   []DonePoint `json:"history"`
}

// KanbanHistory содержит историю Kanban-команды.
type KanbanHistory struct {
	TeamID                string         `json:"teamId"`
	TeamName              string         `json:"teamName"`
	History               []HistoryPoint `json:"history"`
	CumulativeFlowDiagram []FlowEntry    `json:"cumulativeflowdiagram"`
}

// SprintHistory содержит историю спринта.
type SprintHistory struct {
	SprintID     string         `json:"sprintId"`
	SprintName   string         `json:"sprintName"`
	SprintStatus Status         `json:"sprintStatus"`
	SprintStart  *time.Time     `json:"sprintStart,omitempty"`
	SprintEnd    *time.Time     `json:"sprintEnd,omitempty"`
	History      []HistoryPoint `json:"history"`
}

// ReleaseHistory содержит историю релиза.
type ReleaseHistory struct {
	ReleaseID             string         `json:"releaseId"`
	ReleaseName           string         `json:"releaseName"`
	ReleaseStatus         Status         `json:"releaseStatus"`
	History               []HistoryPoint `json:"history"`
	CumulativeFlowDiagram []FlowEntry    `json:"cumulativeflowdiagram"`
}

// MemberTicketStates хранит текущее распределение тикетов участника без денормализации.
type MemberTicketStates struct {
	ID     string                  `json:"id"`
	States map[TicketState]int     `json:"states"`
	Points map[TicketState]float64 `json:"points"`
}

// SprintTicketStates хранит живое, не сохраняемое распределение тикетов спринта.
type SprintTicketStates struct {
	SprintID     string               `json:"sprintId"`
	SprintName   string               `json:"sprintName"`
	SprintStatus Status               `json:"sprintStatus"`
	Members      []MemberTicketStates `json:"members"`
}

// SnapshotQuery задаёт фильтр, порядок и лимит выборки снимков.
// Limit = 0 означает выборку без ограничения.
type SnapshotQuery struct {
	ProjectIDs []string
	TeamIDs    []string
	ScopeIDs   []string
	Descending bool
	Limit      uint64
}

// EntityFilter ограничивает выборку сущностей трекера.
// nil-срез не ограничивает выборку, пустой срез не пропускает ничего.
type EntityFilter struct {
	IDs        []string
	ProjectIDs []string
	TeamIDs    []string
}
