package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"scrum-analytics-service/internal/domain"
)

type pgxPool interface {
	Close()
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Storage инкапсулирует работу с PostgreSQL.
// Запросы выполняются в транзакции из контекста, если её открыл trm.Manager.
type Storage struct {
	pool   pgxPool
	getter *trmpgx.CtxGetter
	sb     squirrel.StatementBuilderType
}

// New создаёт новый слой хранения.
func New(pool pgxPool) *Storage {
	return &Storage{
		pool:   pool,
		getter: trmpgx.DefaultCtxGetter,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Close освобождает соединения пула.
func (s *Storage) Close() {
	s.pool.Close()
}

// Ping проверяет доступность подключения к БД.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// conn возвращает транзакцию из контекста или пул.
func (s *Storage) conn(ctx context.Context) trmpgx.Tr {
	return s.getter.DefaultTrOrDB(ctx, s.pool)
}

// ListActiveProjects возвращает активные проекты.
func (s *Storage) ListActiveProjects(ctx context.Context) ([]domain.Project, error) {
	selectSQL, selectArgs, err := s.sb.
		Select("project_id", "name", "is_active").
		From("projects").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("project_id ASC").
		ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build select projects query", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	rows, err := s.conn(ctx).Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query projects", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Active); err != nil {
			slog.ErrorContext(ctx, "failed to scan project", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrScanResult, err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject возвращает проект по ID.
func (s *Storage) GetProject(ctx context.Context, projectID string) (domain.Project, error) {
	selectSQL, selectArgs, err := s.sb.
		Select("project_id", "name", "is_active").
		From("projects").
		Where(squirrel.Eq{"project_id": projectID}).
		ToSql()
	if err != nil {
		return domain.Project{}, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	var p domain.Project
	err = s.conn(ctx).QueryRow(ctx, selectSQL, selectArgs...).Scan(&p.ID, &p.Name, &p.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Project{}, domain.ErrProjectNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to scan project", "error", err, "project_id", projectID)
		return domain.Project{}, fmt.Errorf("%w: %v", ErrScanResult, err)
	}
	return p, nil
}

// ListTeams возвращает команды с упорядоченным списком участников.
func (s *Storage) ListTeams(ctx context.Context, filter domain.EntityFilter) ([]domain.Team, error) {
	q := s.sb.
		Select("team_id", "name", "project_id", "member_ids", "board_type").
		From("teams")
	selectSQL, selectArgs, err := whereEntity(q, filter, "team_id").OrderBy("team_id ASC").ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build select teams query", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	rows, err := s.conn(ctx).Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query teams", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	defer rows.Close()

	teams := []domain.Team{}
	for rows.Next() {
		var t domain.Team
		var boardType string
		if err := rows.Scan(&t.ID, &t.Name, &t.ProjectID, &t.Members, &boardType); err != nil {
			slog.ErrorContext(ctx, "failed to scan team", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrScanResult, err)
		}
		t.BoardType = domain.BoardType(boardType)
		if t.Members == nil {
			t.Members = []string{}
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// ListTickets возвращает все тикеты указанных проектов одним запросом.
func (s *Storage) ListTickets(ctx context.Context, projectIDs []string) ([]domain.Ticket, error) {
	if len(projectIDs) == 0 {
		return []domain.Ticket{}, nil
	}
	selectSQL, selectArgs, err := s.sb.
		Select("ticket_id", "project_id", "title", "assignee", "state", "points", "sprint_ids", "release_ids").
		From("tickets").
		Where(squirrel.Eq{"project_id": projectIDs}).
		OrderBy("ticket_id ASC").
		ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build select tickets query", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	rows, err := s.conn(ctx).Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query tickets", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	for rows.Next() {
		var t domain.Ticket
		var assignee *string
		var state int
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &assignee, &state, &t.Points, &t.Sprints, &t.Releases); err != nil {
			slog.ErrorContext(ctx, "failed to scan ticket", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrScanResult, err)
		}
		if assignee != nil {
			t.Assignee = *assignee
		}
		t.State = domain.TicketState(state)
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// ListSprints возвращает спринты по фильтру.
func (s *Storage) ListSprints(ctx context.Context, filter domain.EntityFilter) ([]domain.Sprint, error) {
	q := s.sb.
		Select("sprint_id", "project_id", "team_id", "name", "status", "start_date", "end_date").
		From("sprints")
	selectSQL, selectArgs, err := whereEntity(q, filter, "sprint_id").OrderBy("sprint_id ASC").ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build select sprints query", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	rows, err := s.conn(ctx).Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query sprints", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	defer rows.Close()

	sprints := []domain.Sprint{}
	for rows.Next() {
		var sp domain.Sprint
		var status string
		var start, end *time.Time
		if err := rows.Scan(&sp.ID, &sp.ProjectID, &sp.TeamID, &sp.Name, &status, &start, &end); err != nil {
			slog.ErrorContext(ctx, "failed to scan sprint", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrScanResult, err)
		}
		sp.Status = domain.Status(status)
		sp.StartDate, sp.EndDate = start, end
		sprints = append(sprints, sp)
	}
	return sprints, rows.Err()
}

// ListReleases возвращает релизы по фильтру.
func (s *Storage) ListReleases(ctx context.Context, filter domain.EntityFilter) ([]domain.Release, error) {
	q := s.sb.
		Select("release_id", "project_id", "team_id", "name", "status").
		From("releases")
	selectSQL, selectArgs, err := whereEntity(q, filter, "release_id").OrderBy("release_id ASC").ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build select releases query", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	rows, err := s.conn(ctx).Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query releases", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	defer rows.Close()

	releases := []domain.Release{}
	for rows.Next() {
		var r domain.Release
		var status string
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.TeamID, &r.Name, &status); err != nil {
			slog.ErrorContext(ctx, "failed to scan release", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrScanResult, err)
		}
		r.Status = domain.Status(status)
		releases = append(releases, r)
	}
	return releases, rows.Err()
}

// ListActiveUsers возвращает активных пользователей для денормализации имён.
func (s *Storage) ListActiveUsers(ctx context.Context) ([]domain.User, error) {
	selectSQL, selectArgs, err := s.sb.
		Select("user_id", "fname", "lname", "username", "is_active").
		From("users").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("username ASC").
		ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build select users query", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	rows, err := s.conn(ctx).Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query users", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Active); err != nil {
			slog.ErrorContext(ctx, "failed to scan user", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrScanResult, err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
