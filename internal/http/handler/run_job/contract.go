package runjob

import (
	"context"

	"scrum-analytics-service/internal/service"
)

type UseCase interface {
	RunBatch(ctx context.Context, kind service.BatchKind) (service.BatchReport, error)
}

type request struct {
	Kind string `json:"kind"`
}
