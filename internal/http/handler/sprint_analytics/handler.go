package sprintanalytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scrum-analytics-service/internal/http/handler/common"
)

// Handler реализует GET /analytics/sprints.
// Для активных спринтов история дополняется точкой по текущим тикетам.
type Handler struct {
	useCase UseCase
}

func New(useCase UseCase) *Handler {
	return &Handler{useCase: useCase}
}

func (h *Handler) Register(router chi.Router) {
	router.Get("/sprints", common.WithErrorHandling(h.handle))
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) error {
	teamID, err := common.QueryParam(r, "team_id")
	if err != nil {
		return err
	}
	history, err := h.useCase.SprintAnalyticsByTeam(r.Context(), teamID)
	if err != nil {
		return err
	}
	common.RespondJSON(w, http.StatusOK, history)
	return nil
}
