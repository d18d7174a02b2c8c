package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
	statusCancelled = "cancelled"
)

type metrics struct {
	tasksTotal   *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	inFlight     prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		tasksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "armonik",
			Subsystem: "worker",
			Name:      "tasks_total",
			Help:      "처리를 마친 Task 수",
		}, []string{"application", "status"}),

		taskDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "armonik",
			Subsystem: "worker",
			Name:      "task_duration_seconds",
			Help:      "Processor 실행 시간",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"application"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "armonik",
			Subsystem: "worker",
			Name:      "tasks_in_flight",
			Help:      "현재 실행 중인 Task 수",
		}),
	}
}
