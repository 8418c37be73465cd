package runjob

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scrum-analytics-service/internal/http/handler/common"
	"scrum-analytics-service/internal/service"
)

// Handler реализует POST /analytics/jobs/run: ручной запуск пакетного прохода
// вне расписания. Ответ содержит отчёт о построенных и сохранённых снимках.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Post("/jobs/run", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	var req request
	if err := common.DecodeJSON(r, &req); err != nil {
		return err
	}
	kind, err := service.ParseBatchKind(req.Kind)
	if err != nil {
		return err
	}
	report, err := h.useCase.RunBatch(r.Context(), kind)
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusAccepted, report)
	return nil
}
