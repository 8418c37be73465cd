package adminanalytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"scrum-analytics-service/internal/domain"
)

type stubUseCase struct {
	projectID string
	err       error
}

func (s *stubUseCase) AdminAnalyticsByProject(ctx context.Context, projectID string) ([]domain.AdminHistory, error) {
	s.projectID = projectID
	if s.err != nil {
		return nil, s.err
	}
	return []domain.AdminHistory{{
		TeamID:    "t1",
		ProjectID: projectID,
		History:   []domain.DonePoint{{Date: "2024-04-12 19:09", DoneCount: 3, TotalCount: 7}},
	}}, nil
}

func TestHandler_ReturnsHistory(t *testing.T) {
	t.Parallel()

	useCase := &stubUseCase{}
	router := chi.NewRouter()
	New(useCase).Register(router)

	req := httptest.NewRequest(http.MethodGet, "/admin?project_id=p1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "p1", useCase.projectID)
	require.Contains(t, rec.Body.String(), `"doneCount":3`)
}

func TestHandler_ProjectNotFound(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	New(&stubUseCase{err: domain.ErrProjectNotFound}).Register(router)

	req := httptest.NewRequest(http.MethodGet, "/admin?project_id=ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
