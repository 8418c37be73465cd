package adminanalytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scrum-analytics-service/internal/http/handler/common"
)

// Handler реализует GET /analytics/admin.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Get("/admin", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	projectID, err := common.QueryParam(r, "project_id")
	if err != nil {
		return err
	}
	history, err := h.useCase.AdminAnalyticsByProject(r.Context(), projectID)
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusOK, history)
	return nil
}
