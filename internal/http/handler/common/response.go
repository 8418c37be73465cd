package common

import (
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"

	"scrum-analytics-service/internal/domain"
	"scrum-analytics-service/internal/logging"
)

type APIError struct {
	Error APIErrorBody `json:"error"`
}

type APIErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON отправляет JSON-ответ с указанным статус-кодом.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// BadRequest отправляет JSON-ответ со статусом 400.
func BadRequest(w http.ResponseWriter, code, message string) {
	RespondJSON(w, http.StatusBadRequest, APIError{
		Error: APIErrorBody{Code: code, Message: message},
	})
}

// HTTPError описывает контролируемую HTTP-ошибку.
type HTTPError struct {
	status  int
	code    string
	message string
}

func (e *HTTPError) Error() string {
	return e.message
}

// NewHTTPError создаёт новую HTTP-ошибку.
func NewHTTPError(status int, code, message string) *HTTPError {
	return &HTTPError{
		status:  status,
		code:    code,
		message: message,
	}
}

// NewBadRequestError создаёт 400 ошибку.
func NewBadRequestError(code, message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, code, message)
}

// WithErrorHandling оборачивает обработчик, централизуя выдачу ошибок.
// Преобразует доменные ошибки в HTTP-ответы с соответствующими статус-кодами.
func WithErrorHandling(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			var httpErr *HTTPError
			// Если ошибка уже является HTTPError, используем её статус и код
			if errors.As(err, &httpErr) {
				RespondJSON(w, httpErr.status, APIError{
					Error: APIErrorBody{Code: httpErr.code, Message: httpErr.message},
				})
				return
			}
			// Иначе преобразуем доменную ошибку в HTTP-ответ
			WriteDomainError(w, r, err)
		}
	}
}

// WriteDomainError преобразует доменные ошибки в HTTP-ответы.
// Ошибки сервиса приходят обёрнутыми, поэтому сравнение идёт через errors.Is.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	// Контекст ошибки несёт ID спринта, релиза или типа прохода, где она возникла
	ctx := logging.ErrorCtx(r.Context(), err)
	requestID := chimw.GetReqID(ctx)

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		slog.DebugContext(ctx, "invalid input", "request_id", requestID, "error", err)
		RespondJSON(w, http.StatusBadRequest, APIError{Error: APIErrorBody{Code: "INVALID_INPUT", Message: err.Error()}})
	case errors.Is(err, domain.ErrUnknownBatchKind):
		slog.DebugContext(ctx, "unknown batch kind", "request_id", requestID, "error", err)
		RespondJSON(w, http.StatusBadRequest, APIError{Error: APIErrorBody{Code: "UNKNOWN_KIND", Message: err.Error()}})
	case errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrTeamNotFound),
		errors.Is(err, domain.ErrSprintNotFound),
		errors.Is(err, domain.ErrReleaseNotFound):
		slog.DebugContext(ctx, "resource not found", "request_id", requestID, "error", err)
		RespondJSON(w, http.StatusNotFound, APIError{Error: APIErrorBody{Code: "NOT_FOUND", Message: err.Error()}})
	case errors.Is(err, domain.ErrStorageRead):
		slog.ErrorContext(ctx, "storage read failed", "request_id", requestID, "error", err)
		RespondJSON(w, http.StatusServiceUnavailable, APIError{Error: APIErrorBody{Code: "STORAGE_UNAVAILABLE", Message: domain.ErrStorageRead.Error()}})
	case errors.Is(err, domain.ErrStorageWrite):
		slog.ErrorContext(ctx, "storage write failed", "request_id", requestID, "error", err)
		RespondJSON(w, http.StatusBadGateway, APIError{Error: APIErrorBody{Code: "STORAGE_WRITE_FAILED", Message: domain.ErrStorageWrite.Error()}})
	default:
		slog.ErrorContext(ctx, "unhandled domain error", "request_id", requestID, "error", err)
		RespondJSON(w, http.StatusInternalServerError, APIError{Error: APIErrorBody{Code: "INTERNAL_ERROR", Message: "internal server error"}})
	}
}
