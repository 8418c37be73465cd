package releasesnapshot

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scrum-analytics-service/internal/http/handler/common"
)

// Handler реализует POST /analytics/releases/snapshot.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Post("/releases/snapshot", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	var req request
	if err := common.DecodeJSON(r, &req); err != nil {
		return err
	}
	snap, err := h.useCase.SaveReleaseByID(r.Context(), req.ReleaseID)
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusCreated, snap)
	return nil
}
