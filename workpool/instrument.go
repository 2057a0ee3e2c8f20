package workpool

import (
	"github.com/prometheus/client_golang/prometheus"
)

// register publishes the pool's utilization through the given
// registerer. Gauges track current worker and queue state, counters
// track task totals since pool creation.
func (p *WorkerPool) register(registry prometheus.Registerer) {
	registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "https_utils",
			Subsystem: "workpool",
			Name:      "workers_running",
			Help:      "Number of currently live workers.",
		}, func() float64 {
			return float64(p.pool.RunningWorkers())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "https_utils",
			Subsystem: "workpool",
			Name:      "workers_idle",
			Help:      "Number of live workers waiting for tasks.",
		}, func() float64 {
			return float64(p.pool.IdleWorkers())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "https_utils",
			Subsystem: "workpool",
			Name:      "tasks_waiting",
			Help:      "Number of tasks sitting in the work queue.",
		}, func() float64 {
			return float64(p.pool.WaitingTasks())
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "https_utils",
			Subsystem: "workpool",
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks submitted to the pool.",
		}, func() float64 {
			return float64(p.pool.SubmittedTasks())
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "https_utils",
			Subsystem: "workpool",
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks that finished executing.",
		}, func() float64 {
			return float64(p.pool.CompletedTasks())
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "https_utils",
			Subsystem: "workpool",
			Name:      "tasks_failed_total",
			Help:      "Total number of tasks that panicked.",
		}, func() float64 {
			return float64(p.pool.FailedTasks())
		}),
	)
}
