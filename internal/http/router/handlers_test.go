package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"scrum-analytics-service/internal/service"
)

func TestRouterProvidesHealthAndMetrics(t *testing.T) {
	h := New(&service.Service{}, nil)
	handler := h.Router()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterValidatesBeforeService(t *testing.T) {
	handler := New(&service.Service{}, nil).Router()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analytics/sprints", nil)
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/analytics/jobs/run", strings.NewReader(`{"kind":"weekly"}`))
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterSwaggerWithoutSpec(t *testing.T) {
	handler := New(&service.Service{}, nil).Router()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/swagger/openapi.yml", nil)
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
