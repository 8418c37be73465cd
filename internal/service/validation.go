package service

import (
	"fmt"
	"strings"

	"scrum-analytics-service/internal/domain"
)

const maxIDLength = 100

// BatchKind тип пакетного снимка.
type BatchKind string

const (
	KindAdmin   BatchKind = "admin"
	KindKanban  BatchKind = "kanban"
	KindSprint  BatchKind = "sprint"
	KindRelease BatchKind = "release"
)

// BatchKinds возвращает все типы пакетных снимков в порядке запуска.
func BatchKinds() []BatchKind {
	return []BatchKind{KindAdmin, KindKanban, KindSprint, KindRelease}
}

// ParseBatchKind разбирает тип пакетного снимка без учёта регистра.
func ParseBatchKind(raw string) (BatchKind, error) {
	kind := BatchKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case KindAdmin, KindKanban, KindSprint, KindRelease:
		return kind, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownBatchKind, raw)
}

// ValidateID проверяет идентификатор сущности трекера.
func ValidateID(field, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: %s cannot be empty", domain.ErrInvalidInput, field)
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("%w: %s too long (max %d characters)", domain.ErrInvalidInput, field, maxIDLength)
	}
	return nil
}
