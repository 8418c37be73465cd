package analytics

import (
	"time"

	"github.com/google/uuid"

	"scrum-analytics-service/internal/domain"
	"scrum-analytics-service/internal/infrastructure/nower"
)

// DefaultDateLayout формат отображаемой даты снимка.
const DefaultDateLayout = "2006-01-02 15:04"

// Builder строит снимки всех четырёх видов.
// Один и тот же Builder используется и пакетной задачей, и точечным сохранением,
// поэтому форма снимка от режима не зависит.
type Builder struct {
	states []domain.TicketState
	nower  nower.Nower
	layout string
	newID  func() string
}

func NewBuilder(states []domain.TicketState, n nower.Nower, layout string) *Builder {
	if layout == "" {
		layout = DefaultDateLayout
	}
	return &Builder{
		states: append([]domain.TicketState(nil), states...),
		nower:  n,
		layout: layout,
		newID:  func() string { return uuid.NewString() },
	}
}

// States возвращает набор состояний, по которому строятся снимки.
func (b *Builder) States() []domain.TicketState {
	return append([]domain.TicketState(nil), b.states...)
}

// stamp общие поля снимка: ID, отображаемая и сортируемая даты.
type stamp struct {
	id    string
	date  string
	idate time.Time
}

func (b *Builder) stamp() stamp {
	now := b.nower.Now()
	return stamp{id: b.newID(), date: now.Format(b.layout), idate: now}
}

// scopedResult результат агрегации по области снимка.
type scopedResult struct {
	members []domain.MemberDistribution
	flow    []domain.FlowEntry
}

// scoped выполняет общий шаг всех построителей: распределение по участникам команды для
// отфильтрованных тикетов и, при необходимости, одна точка диаграммы потока.
func (b *Builder) scoped(
	team domain.Team,
	users map[string]domain.User,
	tickets []domain.Ticket,
	filter TicketFilter,
	withFlow bool,
	at time.Time,
) scopedResult {
	members := AggregateMembers(b.states, team.Members, users, tickets, filter)
	res := scopedResult{members: members}
	if withFlow {
		res.flow = []domain.FlowEntry{BuildFlowEntry(b.states, members, at)}
	}
	return res
}

// Admin строит административный снимок команды: число закрытых и всех тикетов участников.
func (b *Builder) Admin(team domain.Team, tickets []domain.Ticket) domain.AdminSnapshot {
	st := b.stamp()
	res := b.scoped(team, nil, tickets, AllTickets, false, st.idate)
	var done, total int
	for _, m := range res.members {
		for _, s := range b.states {
			total += m.States[s]
		}
		done += m.States[domain.StateDone]
	}
	return domain.AdminSnapshot{
		ID:         st.id,
		Date:       st.date,
		IDate:      st.idate,
		ProjectID:  team.ProjectID,
		TeamID:     team.ID,
		TeamName:   team.Name,
		DoneCount:  done,
		TotalCount: total,
	}
}

// Kanban строит снимок Kanban-команды с одной точкой диаграммы потока.
func (b *Builder) Kanban(team domain.Team, users map[string]domain.User, tickets []domain.Ticket) domain.KanbanSnapshot {
	st := b.stamp()
	res := b.scoped(team, users, tickets, AllTickets, true, st.idate)
	return domain.KanbanSnapshot{
		ID:                    st.id,
		Date:                  st.date,
		IDate:                 st.idate,
		ProjectID:             team.ProjectID,
		TeamID:                team.ID,
		TeamName:              team.Name,
		Members:               res.members,
		CumulativeFlowDiagram: res.flow,
	}
}

// Sprint строит снимок спринта.
func (b *Builder) Sprint(sprint domain.Sprint, team domain.Team, users map[string]domain.User, tickets []domain.Ticket) domain.SprintSnapshot {
	st := b.stamp()
	res := b.scoped(team, users, tickets, InSprint(sprint.ID), false, st.idate)
	return domain.SprintSnapshot{
		ID:           st.id,
		Date:         st.date,
		IDate:        st.idate,
		ProjectID:    sprint.ProjectID,
		TeamID:       team.ID,
		SprintID:     sprint.ID,
		SprintName:   sprint.Name,
		SprintStatus: sprint.Status,
		SprintStart:  sprint.StartDate,
		SprintEnd:    sprint.EndDate,
		Members:      res.members,
	}
}

// Release строит снимок релиза с одной точкой диаграммы потока.
func (b *Builder) Release(release domain.Release, team domain.Team, users map[string]domain.User, tickets []domain.Ticket) domain.ReleaseSnapshot {
	st := b.stamp()
	res := b.scoped(team, users, tickets, InRelease(release.ID), true, st.idate)
	return domain.ReleaseSnapshot{
		ID:                    st.id,
		Date:                  st.date,
		IDate:                 st.idate,
		ProjectID:             release.ProjectID,
		TeamID:                team.ID,
		ReleaseID:             release.ID,
		ReleaseName:           release.Name,
		ReleaseStatus:         release.Status,
		Members:               res.members,
		CumulativeFlowDiagram: res.flow,
	}
}
