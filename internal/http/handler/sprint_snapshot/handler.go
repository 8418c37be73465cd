package sprintsnapshot

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scrum-analytics-service/internal/http/handler/common"
)

// Handler реализует POST /analytics/sprints/snapshot.
// Вызывается трекером при закрытии спринта, чтобы зафиксировать итоговый снимок.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Post("/sprints/snapshot", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	var req request
	if err := common.DecodeJSON(r, &req); err != nil {
		return err
	}
	snap, err := h.useCase.SaveSprintByID(r.Context(), req.SprintID)
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusCreated, snap)
	return nil
}
