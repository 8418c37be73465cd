package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotsBuilt = promauto.NewCounterVec(
		prometheusCounterOpts("analytics_snapshots_built_total", "Total number of built analytics snapshots"),
		[]string{"kind"},
	)
	snapshotsPersisted = promauto.NewCounterVec(
		prometheusCounterOpts("analytics_snapshots_persisted_total", "Total number of persisted analytics snapshots"),
		[]string{"kind"},
	)
	snapshotFailures = promauto.NewCounterVec(
		prometheusCounterOpts("analytics_snapshot_failures_total", "Total number of snapshots that failed to persist"),
		[]string{"kind"},
	)
	livePoints = promauto.NewCounter(
		prometheusCounterOpts("analytics_live_points_total", "Total number of live points injected into sprint history"),
	)
	batchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_batch_duration_seconds",
			Help:    "Duration of analytics batch jobs.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

// AddSnapshotsBuilt увеличивает счётчик построенных снимков.
func AddSnapshotsBuilt(kind string, delta int) {
	if delta <= 0 {
		return
	}
	snapshotsBuilt.WithLabelValues(kind).Add(float64(delta))
}

// AddSnapshotsPersisted увеличивает счётчик сохранённых снимков.
func AddSnapshotsPersisted(kind string, delta int) {
	if delta <= 0 {
		return
	}
	snapshotsPersisted.WithLabelValues(kind).Add(float64(delta))
}

// AddSnapshotFailures увеличивает счётчик снимков, которые не удалось сохранить.
func AddSnapshotFailures(kind string, delta int) {
	if delta <= 0 {
		return
	}
	snapshotFailures.WithLabelValues(kind).Add(float64(delta))
}

// AddLivePoints увеличивает счётчик живых точек истории спринтов.
func AddLivePoints(delta int) {
	if delta <= 0 {
		return
	}
	livePoints.Add(float64(delta))
}

// ObserveBatchDuration записывает длительность пакетного задания.
func ObserveBatchDuration(kind string, d time.Duration) {
	batchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func prometheusCounterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Name: name,
		Help: help,
	}
}
