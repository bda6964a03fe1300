package job

import "github.com/prometheus/client_golang/prometheus"

var (
	sweepRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "taskboard_sweep_runs_total",
		Help: "Number of completed overdue sweep runs.",
	})

	tasksMarkedOverdueTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "taskboard_tasks_marked_overdue_total",
		Help: "Number of tasks newly flagged overdue by sweep runs.",
	})

	notificationsEnqueuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "taskboard_overdue_notifications_enqueued_total",
		Help: "Number of overdue alerts handed to the mail dispatcher.",
	})
)

func init() {
	prometheus.MustRegister(sweepRunsTotal, tasksMarkedOverdueTotal, notificationsEnqueuedTotal)
}
