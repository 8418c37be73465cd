package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminanalytics "scrum-analytics-service/internal/http/handler/admin_analytics"
	"scrum-analytics-service/internal/http/handler/common"
	kanbananalytics "scrum-analytics-service/internal/http/handler/kanban_analytics"
	releaseanalytics "scrum-analytics-service/internal/http/handler/release_analytics"
	releasesnapshot "scrum-analytics-service/internal/http/handler/release_snapshot"
	runjob "scrum-analytics-service/internal/http/handler/run_job"
	sprintanalytics "scrum-analytics-service/internal/http/handler/sprint_analytics"
	sprintsnapshot "scrum-analytics-service/internal/http/handler/sprint_snapshot"
	ticketstates "scrum-analytics-service/internal/http/handler/ticket_states"
	"scrum-analytics-service/internal/http/middleware"
	"scrum-analytics-service/internal/http/swagger"
	"scrum-analytics-service/internal/service"
)

// Handler агрегирует HTTP-эндпоинты.
type Handler struct {
	service     *service.Service
	swaggerSpec []byte
}

func New(service *service.Service, spec []byte) *Handler {
	return &Handler{service: service, swaggerSpec: spec}
}

// Router возвращает готовый chi.Router со всеми зарегистрированными маршрутами и middleware.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	// Middleware применяются в порядке объявления
	r.Use(chimw.RequestID)              // Добавляет уникальный ID каждому запросу
	r.Use(chimw.RealIP)                 // Определяет реальный IP клиента
	r.Use(middleware.PanicMiddleware)   // Перехватывает паники
	r.Use(middleware.LoggerMiddleware)  // Логирует все запросы
	r.Use(middleware.MetricsMiddleware) // Собирает метрики Prometheus
	swagger.RegisterRoutes(r, h.swaggerSpec)

	// Health check эндпоинт для проверки доступности сервиса
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.HealthCheck(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "health check failed", "error", err)
			common.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheus metrics endpoint для сбора метрик
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/analytics", func(router chi.Router) {
		h.registerReadRoutes(router)
		h.registerSnapshotRoutes(router)
		h.registerJobRoutes(router)
	})

	return r
}

func (h *Handler) registerReadRoutes(r chi.Router) {
	adminanalytics.New(h.service).Register(r)
	kanbananalytics.New(h.service).Register(r)
	sprintanalytics.New(h.service).Register(r)
	releaseanalytics.New(h.service).Register(r)
	ticketstates.New(h.service).Register(r)
}

func (h *Handler) registerSnapshotRoutes(r chi.Router) {
	sprintsnapshot.New(h.service).Register(r)
	releasesnapshot.New(h.service).Register(r)
}

func (h *Handler) registerJobRoutes(r chi.Router) {
	runjob.New(h.service).Register(r)
}
