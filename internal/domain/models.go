package domain

import "time"

// BoardType определяет тип доски команды.
type BoardType string

const (
	BoardKanban BoardType = "KANBAN"
	BoardScrum  BoardType = "SCRUM"
)

// Status отражает жизненный цикл спринта или релиза.
type Status string

const (
	StatusInactive Status = "INACTIVE"
	StatusActive   Status = "ACTIVE"
	StatusClosed   Status = "CLOSED"
)

// Project описывает проект трекера.
type Project struct {
	ID     string `json:"project_id"`
	Name   string `json:"name"`
	Active bool   `json:"is_active"`
}

// User представляет пользователя трекера.
type User struct {
	ID        string `json:"user_id"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Username  string `json:"username"`
	Active    bool   `json:"is_active"`
}

// Team описывает команду и упорядоченный список её участников.
type Team struct {
	ID        string    `json:"team_id"`
	Name      string    `json:"name"`
	ProjectID string    `json:"project_id"`
	Members   []string  `json:"members"`
	BoardType BoardType `json:"board_type"`
}

// Sprint описывает спринт команды.
type Sprint struct {
	ID        string     `json:"sprint_id"`
	ProjectID string     `json:"project_id"`
	TeamID    string     `json:"team_id"`
	Name      string     `json:"name"`
	Status    Status     `json:"status"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Release описывает релиз команды.
type Release struct {
	ID        string `json:"release_id"`
	ProjectID string `json:"project_id"`
	TeamID    string `json:"team_id"`
	Name      string `json:"name"`
	Status    Status `json:"status"`
}

// Ticket содержит данные тикета, которые нужны аналитике.
type Ticket struct {
	ID        string      `json:"ticket_id"`
	ProjectID string      `json:"project_id"`
	Title     string      `json:"title"`
	Assignee  string      `json:"assignee"`
	State     TicketState `json:"state"`
	Points    *float64    `json:"points"`
	Sprints   []string    `json:"sprints"`
	Releases  []string    `json:"releases"`
}

// PointsValue возвращает оценку тикета, пустая оценка считается нулём.
func (t Ticket) PointsValue() float64 {
	if t.Points == nil {
		return 0
	}
	return *t.Points
}

// InSprint сообщает, входит ли тикет в спринт.
func (t Ticket) InSprint(sprintID string) bool {
	return contains(t.Sprints, sprintID)
}

// InRelease сообщает, входит ли тикет в релиз.
func (t Ticket) InRelease(releaseID string) bool {
	return contains(t.Releases, releaseID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
