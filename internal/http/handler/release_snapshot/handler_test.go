package releasesnapshot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"scrum-analytics-service/internal/domain"
)

type stubUseCase struct {
	err error
}

func (s stubUseCase) SaveReleaseByID(ctx context.Context, releaseID string) (domain.ReleaseSnapshot, error) {
	if s.err != nil {
		return domain.ReleaseSnapshot{}, s.err
	}
	return domain.ReleaseSnapshot{ID: "snap-1", ReleaseID: releaseID}, nil
}

func TestHandler(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"created", `{"release_id":"r1"}`, nil, http.StatusCreated},
		{"not found", `{"release_id":"ghost"}`, domain.ErrReleaseNotFound, http.StatusNotFound},
		{"bad json", `[]x`, nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router := chi.NewRouter()
			New(stubUseCase{err: tc.err}).Register(router)
			req := httptest.NewRequest(http.MethodPost, "/releases/snapshot", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
		})
	}
}
