package repository

import (
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	json "github.com/goccy/go-json"

	"scrum-analytics-service/internal/domain"
)

// Общие ошибки репозитория.
var (
	ErrBuildQuery   = errors.New("failed to build SQL query")
	ErrExecuteQuery = errors.New("failed to execute query")
	ErrScanResult   = errors.New("failed to scan result")
	ErrEncodeColumn = errors.New("failed to encode json column")
	ErrDecodeColumn = errors.New("failed to decode json column")
)

// encodeJSON сериализует значение для JSONB-колонки.
func encodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeColumn, err)
	}
	return data, nil
}

// decodeJSON читает JSONB-колонку, пустое значение оставляет v нетронутым.
func decodeJSON(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeColumn, err)
	}
	return nil
}

// whereEntity добавляет условия фильтра. nil-срез не ограничивает выборку,
// пустой срез не пропускает ни одной строки.
func whereEntity(q squirrel.SelectBuilder, f domain.EntityFilter, idColumn string) squirrel.SelectBuilder {
	if f.IDs != nil {
		q = q.Where(squirrel.Eq{idColumn: f.IDs})
	}
	if f.ProjectIDs != nil {
		q = q.Where(squirrel.Eq{"project_id": f.ProjectIDs})
	}
	if f.TeamIDs != nil {
		q = q.Where(squirrel.Eq{"team_id": f.TeamIDs})
	}
	return q
}
