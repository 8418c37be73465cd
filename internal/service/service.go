package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	trm "github.com/avito-tech/go-transaction-manager/trm/v2"

	"scrum-analytics-service/internal/analytics"
	"scrum-analytics-service/internal/config"
	"scrum-analytics-service/internal/domain"
	"scrum-analytics-service/internal/repository"
)

const (
	// DefaultOperationTimeout таймаут по умолчанию для обычных операций
	DefaultOperationTimeout = 30 * time.Second
	// DefaultLongOperationTimeout таймаут по умолчанию для пакетных снимков
	DefaultLongOperationTimeout = 60 * time.Second
	// DefaultPersistConcurrency число одновременных записей снимков в пакете
	DefaultPersistConcurrency = 4
)

// Repository описывает операции, которые требуются сервису.
type Repository interface {
	repository.Repository
}

// Service строит, сохраняет и читает аналитические снимки.
type Service struct {
	repo    Repository
	health  repository.HealthChecker
	cfg     config.Config
	trMgr   trm.Manager
	builder *analytics.Builder
}

func New(repo Repository, cfg config.Config, trMgr trm.Manager, builder *analytics.Builder) *Service {
	svc := &Service{
		repo:    repo,
		cfg:     cfg,
		trMgr:   trMgr,
		builder: builder,
	}
	if svc.cfg.Timeouts.Operation <= 0 {
		svc.cfg.Timeouts.Operation = DefaultOperationTimeout
	}
	if svc.cfg.Timeouts.LongOperation <= 0 {
		svc.cfg.Timeouts.LongOperation = DefaultLongOperationTimeout
	}
	if svc.cfg.Analytics.PersistConcurrency <= 0 {
		svc.cfg.Analytics.PersistConcurrency = DefaultPersistConcurrency
	}
	if checker, ok := repo.(repository.HealthChecker); ok {
		svc.health = checker
	}
	return svc
}

// HealthCheck возвращает состояние зависимостей сервиса.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	ctx, cancel := s.shortOperationContext(ctx)
	defer cancel()
	return s.health.Ping(ctx)
}

// shortOperationContext создаёт контекст с таймаутом для обычных операций.
func (s *Service) shortOperationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.Timeouts.Operation)
}

// longOperationContext создаёт контекст с таймаутом для пакетных снимков.
func (s *Service) longOperationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.Timeouts.LongOperation)
}

// readErr приводит ошибку чтения к доменной. Ошибки «не найдено» не оборачиваются.
func readErr(err error) error {
	if err == nil || isNotFound(err) || errors.Is(err, domain.ErrStorageRead) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageRead, err)
}

// writeErr приводит ошибку записи снимка к доменной.
func writeErr(err error) error {
	if err == nil || errors.Is(err, domain.ErrStorageWrite) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageWrite, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrProjectNotFound) ||
		errors.Is(err, domain.ErrTeamNotFound) ||
		errors.Is(err, domain.ErrSprintNotFound) ||
		errors.Is(err, domain.ErrReleaseNotFound)
}
