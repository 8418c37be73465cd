package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RestRequestsTotal число запросов к REST API по шаблону пути
	RestRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_rest_hits_total",
			Help: "Total number of REST API requests.",
		},
		[]string{"path"},
	)

	// RestResponseDuration длительность обработки в секундах. Чтение истории
	// обычно укладывается в миллисекунды, ручной пакетный проход занимает секунды.
	RestResponseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_rest_duration_seconds",
			Help:    "Duration of REST API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"path", "method"},
	)

	// RestEndpointsResponsesTotal ответы по статусам
	RestEndpointsResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_rest_statuses_total",
			Help: "Statuses of REST API responses.",
		},
		[]string{"path", "status"},
	)
)

// IncRestRequestsTotal увеличивает счётчик запросов.
func IncRestRequestsTotal(path string) {
	RestRequestsTotal.WithLabelValues(path).Inc()
}

// IncRestResponsesDuration записывает длительность запроса.
func IncRestResponsesDuration(path, method string, timeServe time.Duration) {
	RestResponseDuration.WithLabelValues(path, method).Observe(timeServe.Seconds())
}

// IncRestResponsesStatusesTotal увеличивает счётчик ответов по статусу.
func IncRestResponsesStatusesTotal(path string, status int) {
	RestEndpointsResponsesTotal.WithLabelValues(path, http.StatusText(status)).Inc()
}
