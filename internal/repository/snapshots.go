package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"scrum-analytics-service/internal/domain"
)

const (
	tableAdminAnalytics   = "admin_analytics"
	tableKanbanAnalytics  = "kanban_analytics"
	tableSprintAnalytics  = "sprint_analytics"
	tableReleaseAnalytics = "release_analytics"
)

// snapshotSelect строит выборку снимков с фильтром по проекту, команде и сущности.
func (s *Storage) snapshotSelect(table, scopeColumn string, columns []string, query domain.SnapshotQuery) squirrel.SelectBuilder {
	q := s.sb.Select(columns...).From(table)
	if query.ProjectIDs != nil {
		q = q.Where(squirrel.Eq{"project_id": query.ProjectIDs})
	}
	if query.TeamIDs != nil {
		q = q.Where(squirrel.Eq{"team_id": query.TeamIDs})
	}
	if query.ScopeIDs != nil && scopeColumn != "" {
		q = q.Where(squirrel.Eq{scopeColumn: query.ScopeIDs})
	}
	if query.Descending {
		q = q.OrderBy("idate DESC", "id DESC")
	} else {
		q = q.OrderBy("idate ASC", "id ASC")
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}
	return q
}

// listSnapshots выполняет выборку и сканирует строки в снимки.
func listSnapshots[T any](ctx context.Context, s *Storage, table string, q squirrel.SelectBuilder, scan func(pgx.Rows) (T, error)) ([]T, error) {
	selectSQL, selectArgs, err := q.ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build select snapshots query", "error", err, "table", table)
		return nil, fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	rows, err := s.conn(ctx).Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to query snapshots", "error", err, "table", table)
		return nil, fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			slog.ErrorContext(ctx, "failed to scan snapshot", "error", err, "table", table)
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanResult, err)
	}
	return out, nil
}

// insertSnapshot выполняет вставку одной строки снимка.
func (s *Storage) insertSnapshot(ctx context.Context, table string, q squirrel.InsertBuilder) error {
	insertSQL, insertArgs, err := q.ToSql()
	if err != nil {
		slog.ErrorContext(ctx, "failed to build insert snapshot query", "error", err, "table", table)
		return fmt.Errorf("%w: %v", ErrBuildQuery, err)
	}
	if _, err := s.conn(ctx).Exec(ctx, insertSQL, insertArgs...); err != nil {
		slog.ErrorContext(ctx, "failed to insert snapshot", "error", err, "table", table)
		return fmt.Errorf("%w: %v", ErrExecuteQuery, err)
	}
	return nil
}

// AddAdminAnalytics сохраняет административный снимок.
func (s *Storage) AddAdminAnalytics(ctx context.Context, snap domain.AdminSnapshot) (domain.AdminSnapshot, error) {
	q := s.sb.Insert(tableAdminAnalytics).
		Columns("id", "date", "idate", "project_id", "team_id", "team_name", "done_count", "total_count").
		Values(snap.ID, snap.Date, snap.IDate, snap.ProjectID, snap.TeamID, snap.TeamName, snap.DoneCount, snap.TotalCount)
	if err := s.insertSnapshot(ctx, tableAdminAnalytics, q); err != nil {
		return domain.AdminSnapshot{}, err
	}
	return snap, nil
}

// AddKanbanAnalytics сохраняет снимок Kanban-команды.
func (s *Storage) AddKanbanAnalytics(ctx context.Context, snap domain.KanbanSnapshot) (domain.KanbanSnapshot, error) {
	members, err := encodeJSON(snap.Members)
	if err != nil {
		return domain.KanbanSnapshot{}, err
	}
	flow, err := encodeJSON(snap.CumulativeFlowDiagram)
	if err != nil {
		return domain.KanbanSnapshot{}, err
	}
	q := s.sb.Insert(tableKanbanAnalytics).
		Columns("id", "date", "idate", "project_id", "team_id", "team_name", "members", "cumulative_flow_diagram").
		Values(snap.ID, snap.Date, snap.IDate, snap.ProjectID, snap.TeamID, snap.TeamName, members, flow)
	if err := s.insertSnapshot(ctx, tableKanbanAnalytics, q); err != nil {
		return domain.KanbanSnapshot{}, err
	}
	return snap, nil
}

// AddSprintAnalytics сохраняет снимок спринта.
func (s *Storage) AddSprintAnalytics(ctx context.Context, snap domain.SprintSnapshot) (domain.SprintSnapshot, error) {
	members, err := encodeJSON(snap.Members)
	if err != nil {
		return domain.SprintSnapshot{}, err
	}
	q := s.sb.Insert(tableSprintAnalytics).
		Columns("id", "date", "idate", "project_id", "team_id", "sprint_id", "sprint_name",
			"sprint_status", "sprint_start", "sprint_end", "members").
		Values(snap.ID, snap.Date, snap.IDate, snap.ProjectID, snap.TeamID, snap.SprintID, snap.SprintName,
			string(snap.SprintStatus), snap.SprintStart, snap.SprintEnd, members)
	if err := s.insertSnapshot(ctx, tableSprintAnalytics, q); err != nil {
		return domain.SprintSnapshot{}, err
	}
	return snap, nil
}

// AddReleaseAnalytics сохраняет снимок релиза.
func (s *Storage) AddReleaseAnalytics(ctx context.Context, snap domain.ReleaseSnapshot) (domain.ReleaseSnapshot, error) {
	members, err := encodeJSON(snap.Members)
	if err != nil {
		return domain.ReleaseSnapshot{}, err
	}
	flow, err := encodeJSON(snap.CumulativeFlowDiagram)
	if err != nil {
		return domain.ReleaseSnapshot{}, err
	}
	q := s.sb.Insert(tableReleaseAnalytics).
		Columns("id", "date", "idate", "project_id", "team_id", "release_id", "release_name",
			"release_status", "members", "cumulative_flow_diagram").
		Values(snap.ID, snap.Date, snap.IDate, snap.ProjectID, snap.TeamID, snap.ReleaseID, snap.ReleaseName,
			string(snap.ReleaseStatus), members, flow)
	if err := s.insertSnapshot(ctx, tableReleaseAnalytics, q); err != nil {
		return domain.ReleaseSnapshot{}, err
	}
	return snap, nil
}

// ListAdminAnalytics возвращает административные снимки.
func (s *Storage) ListAdminAnalytics(ctx context.Context, query domain.SnapshotQuery) ([]domain.AdminSnapshot, error) {
	q := s.snapshotSelect(tableAdminAnalytics, "team_id", []string{
		"id", "date", "idate", "project_id", "team_id", "team_name", "done_count", "total_count",
	}, query)
	return listSnapshots(ctx, s, tableAdminAnalytics, q, func(rows pgx.Rows) (domain.AdminSnapshot, error) {
		var snap domain.AdminSnapshot
		if err := rows.Scan(&snap.ID, &snap.Date, &snap.IDate, &snap.ProjectID, &snap.TeamID,
			&snap.TeamName, &snap.DoneCount, &snap.TotalCount); err != nil {
			return domain.AdminSnapshot{}, fmt.Errorf("%w: %v", ErrScanResult, err)
		}
		return snap, nil
	})
}

// ListKanbanAnalytics возвращает снимки Kanban-команд.
func (s *Storage) ListKanbanAnalytics(ctx context.Context, query domain.SnapshotQuery) ([]domain.KanbanSnapshot, error) {
	q := s.snapshotSelect(tableKanbanAnalytics, "team_id", []string{
		"id", "date", "idate", "project_id", "team_id", "team_name", "members", "cumulative_flow_diagram",
	}, query)
	return listSnapshots(ctx, s, tableKanbanAnalytics, q, func(rows pgx.Rows) (domain.KanbanSnapshot, error) {
		var snap domain.KanbanSnapshot
		var members, flow []byte
		if err := rows.Scan(&snap.ID, &snap.Date, &snap.IDate, &snap.ProjectID, &snap.TeamID,
			&snap.TeamName, &members, &flow); err != nil {
			return domain.KanbanSnapshot{}, fmt.Errorf("%w: %v", ErrScanResult, err)
		}
		if err := decodeJSON(members, &snap.Members); err != nil {
			return domain.KanbanSnapshot{}, err
		}
		if err := decodeJSON(flow, &snap.CumulativeFlowDiagram); err != nil {
			return domain.KanbanSnapshot{}, err
		}
		return snap, nil
	})
}

// ListSprintAnalytics возвращает снимки спринтов.
func (s *Storage) ListSprintAnalytics(ctx context.Context, query domain.SnapshotQuery) ([]domain.SprintSnapshot, error) {
	q := s.snapshotSelect(tableSprintAnalytics, "sprint_id", []string{
		"id", "date", "idate", "project_id", "team_id", "sprint_id", "sprint_name",
		"sprint_status", "sprint_start", "sprint_end", "members",
	}, query)
	return listSnapshots(ctx, s, tableSprintAnalytics, q, func(rows pgx.Rows) (domain.SprintSnapshot, error) {
		var snap domain.SprintSnapshot
		var status string
		var members []byte
		if err := rows.Scan(&snap.ID, &snap.Date, &snap.IDate, &snap.ProjectID, &snap.TeamID, &snap.SprintID,
			&snap.SprintName, &status, &snap.SprintStart, &snap.SprintEnd, &members); err != nil {
			return domain.SprintSnapshot{}, fmt.Errorf("%w: %v", ErrScanResult, err)
		}
		snap.SprintStatus = domain.Status(status)
		if err := decodeJSON(members, &snap.Members); err != nil {
			return domain.SprintSnapshot{}, err
		}
		return snap, nil
	})
}

// ListReleaseAnalytics возвращает снимки релизов.
func (s *Storage) ListReleaseAnalytics(ctx context.Context, query domain.SnapshotQuery) ([]domain.ReleaseSnapshot, error) {
	q := s.snapshotSelect(tableReleaseAnalytics, "release_id", []string{
		"id", "date", "idate", "project_id", "team_id", "release_id", "release_name",
		"release_status", "members", "cumulative_flow_diagram",
	}, query)
	return listSnapshots(ctx, s, tableReleaseAnalytics, q, func(rows pgx.Rows) (domain.ReleaseSnapshot, error) {
		var snap domain.ReleaseSnapshot
		var status string
		var members, flow []byte
		if err := rows.Scan(&snap.ID, &snap.Date, &snap.IDate, &snap.ProjectID, &snap.TeamID, &snap.ReleaseID,
			&snap.ReleaseName, &status, &members, &flow); err != nil {
			return domain.ReleaseSnapshot{}, fmt.Errorf("%w: %v", ErrScanResult, err)
		}
		snap.ReleaseStatus = domain.Status(status)
		if err := decodeJSON(members, &snap.Members); err != nil {
			return domain.ReleaseSnapshot{}, err
		}
		if err := decodeJSON(flow, &snap.CumulativeFlowDiagram); err != nil {
			return domain.ReleaseSnapshot{}, err
		}
		return snap, nil
	})
}
