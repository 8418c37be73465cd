package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"scrum-analytics-service/internal/domain"
)

func TestRespondJSONWritesBodyAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, http.StatusAccepted, map[string]string{"ok": "true"})

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&body))
	require.Equal(t, "true", body["ok"])
}

func TestRespondJSONUsesStateNames(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, http.StatusOK, map[domain.TicketState]int{domain.StateCodeReview: 2})

	require.JSONEq(t, `{"codeReview":2}`, rec.Body.String())
}

func TestWithErrorHandlingReturnsHTTPError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	handler := WithErrorHandling(func(http.ResponseWriter, *http.Request) error {
		return NewHTTPError(http.StatusTeapot, "CUSTOM", "boom")
	})
	handler(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	require.Equal(t, "CUSTOM", apiErr.Error.Code)
}

func TestWithErrorHandlingFallsBackToDomainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), chimw.RequestIDKey, "req-1")
	req = req.WithContext(ctx)

	handler := WithErrorHandling(func(http.ResponseWriter, *http.Request) error {
		return domain.ErrTeamNotFound
	})
	handler(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	require.Equal(t, "NOT_FOUND", apiErr.Error.Code)
}

func TestWriteDomainErrorMapsWrappedErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: team_id cannot be empty", domain.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{fmt.Errorf("%w: %q", domain.ErrUnknownBatchKind, "daily"), http.StatusBadRequest, "UNKNOWN_KIND"},
		{domain.ErrSprintNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: %w", domain.ErrStorageRead, errors.New("dial tcp")), http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
		{fmt.Errorf("%w: %w", domain.ErrStorageWrite, errors.New("insert")), http.StatusBadGateway, "STORAGE_WRITE_FAILED"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		WriteDomainError(rec, req, tc.err)

		require.Equal(t, tc.status, rec.Code, tc.err.Error())
		var apiErr APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		require.Equal(t, tc.code, apiErr.Error.Code)
		require.NotContains(t, apiErr.Error.Message, "dial tcp")
	}
}

func TestWriteDomainErrorUnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteDomainError(rec, req, errors.New("unexpected"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	require.Equal(t, "INTERNAL_ERROR", apiErr.Error.Code)
}

func TestQueryParamAndDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?team_id=t1", nil)
	value, err := QueryParam(req, "team_id")
	require.NoError(t, err)
	require.Equal(t, "t1", value)

	_, err = QueryParam(req, "project_id")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)

	var body struct {
		Kind string `json:"kind"`
	}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"kind":"sprint"}`))
	require.NoError(t, DecodeJSON(req, &body))
	require.Equal(t, "sprint", body.Kind)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	require.ErrorAs(t, DecodeJSON(req, &body), &httpErr)
}
