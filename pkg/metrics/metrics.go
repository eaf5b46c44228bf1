// Package metrics provides Prometheus instrumentation for the storefront
// data layer.
//
// The diagnostics server mounts Handler on GET /metrics:
//
//	r.Get("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// ─────────────────────────────────────────────
// Built-in metrics
// ─────────────────────────────────────────────

var (
	// ExecutorTasks counts background writes by repository and outcome.
	ExecutorTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "tasks_total",
			Help:      "Background write tasks executed.",
		},
		[]string{"repo", "status"}, // "success" | "failed" | "rejected"
	)

	// ExecutorTaskDuration tracks how long each write spends on a worker.
	ExecutorTaskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "task_duration_seconds",
			Help:      "Duration of background write tasks in seconds.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"repo"},
	)

	// LiveRefreshes counts live-query re-evaluations.
	LiveRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "refresh_total",
			Help:      "Live query refreshes triggered by table changes.",
		},
		[]string{"status"},
	)

	// SessionExpired counts sessions cleared because of inactivity.
	SessionExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "expired_total",
		Help:      "Sessions cleared by the inactivity timeout.",
	})

	// OrdersPlaced counts orders created at checkout by pricing policy.
	OrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "orders_placed_total",
			Help:      "Orders placed at checkout.",
		},
		[]string{"policy"},
	)

	// ScheduledRuns counts periodic maintenance runs by job and outcome.
	ScheduledRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "runs_total",
			Help:      "Scheduled maintenance runs.",
		},
		[]string{"job", "status"}, // "success" | "failed" | "skipped"
	)
)

// ─────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────

// DefaultRegistry is the Prometheus registry served by Handler.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		ExecutorTasks,
		ExecutorTaskDuration,
		LiveRefreshes,
		SessionExpired,
		OrdersPlaced,
		ScheduledRuns,
	)
}

// MustRegister panics if registration fails.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// Handler exposes the registry in the Prometheus text and OpenMetrics formats.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// RecordTask records one executed write:
//
//	defer metrics.RecordTask("cart", start, err)
func RecordTask(repo string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	ExecutorTasks.WithLabelValues(repo, status).Inc()
	ExecutorTaskDuration.WithLabelValues(repo).Observe(time.Since(start).Seconds())
}

// RecordRefresh records a live-query refresh outcome.
func RecordRefresh(err error) {
	if err != nil {
		LiveRefreshes.WithLabelValues("failed").Inc()
		return
	}
	LiveRefreshes.WithLabelValues("success").Inc()
}
