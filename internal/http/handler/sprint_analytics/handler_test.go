package sprintanalytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"scrum-analytics-service/internal/domain"
)

type stubUseCase struct {
	teamID  string
	history []domain.SprintHistory
	err     error
}

func (s *stubUseCase) SprintAnalyticsByTeam(ctx context.Context, teamID string) ([]domain.SprintHistory, error) {
	s.teamID = teamID
	return s.history, s.err
}

func newRouter(useCase UseCase) chi.Router {
	router := chi.NewRouter()
	New(useCase).Register(router)
	return router
}

func TestHandler_ReturnsHistory(t *testing.T) {
	t.Parallel()

	useCase := &stubUseCase{history: []domain.SprintHistory{{
		SprintID:     "s1",
		SprintStatus: domain.StatusActive,
		History: []domain.HistoryPoint{{Date: "2024-04-12 19:09", Members: []domain.MemberDistribution{{
			ID:     "u1",
			States: map[domain.TicketState]int{domain.StateDone: 1},
			Points: map[domain.TicketState]float64{domain.StateDone: 5},
		}}}},
	}}}
	req := httptest.NewRequest(http.MethodGet, "/sprints?team_id=t1", nil)
	rec := httptest.NewRecorder()

	newRouter(useCase).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "t1", useCase.teamID)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ACTIVE", body[0]["sprintStatus"])
	require.Contains(t, rec.Body.String(), `"done":5`)
}

func TestHandler_EmptyHistoryIsEmptyArray(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/sprints?team_id=t1", nil)
	rec := httptest.NewRecorder()

	newRouter(&stubUseCase{history: []domain.SprintHistory{}}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_MissingTeamID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/sprints", nil)
	rec := httptest.NewRecorder()

	newRouter(&stubUseCase{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_StorageFailure(t *testing.T) {
	t.Parallel()

	useCase := &stubUseCase{err: fmt.Errorf("%w: %w", domain.ErrStorageRead, context.DeadlineExceeded)}
	req := httptest.NewRequest(http.MethodGet, "/sprints?team_id=t1", nil)
	rec := httptest.NewRecorder()

	newRouter(useCase).ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
