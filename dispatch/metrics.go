package dispatch

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics 每个调度器独立注册，避免多个实例之间相互干扰
type metrics struct {
	registry  *prometheus.Registry
	submitted *prometheus.CounterVec
	completed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	cancelled *prometheus.CounterVec
	timedOut  *prometheus.CounterVec
	fallback  *prometheus.CounterVec
	queued    prometheus.Gauge
	busy      prometheus.Gauge
	workers   prometheus.Gauge
}

func newMetrics(registry *prometheus.Registry) *metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	byKind := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workbench",
			Subsystem: "dispatch",
			Name:      name,
			Help:      help,
		}, []string{"kind"})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "workbench",
			Subsystem: "dispatch",
			Name:      name,
			Help:      help,
		})
	}

	m := &metrics{
		registry:  registry,
		submitted: byKind("tasks_submitted_total", "Total number of submitted tasks"),
		completed: byKind("tasks_completed_total", "Total number of tasks answered by a worker"),
		failed:    byKind("tasks_failed_total", "Total number of tasks rejected by a handler error or timeout"),
		cancelled: byKind("tasks_cancelled_total", "Total number of tasks dropped because the caller cancelled or the dispatcher closed"),
		timedOut:  byKind("tasks_timed_out_total", "Total number of tasks that hit the timeout"),
		fallback:  byKind("tasks_fallback_total", "Total number of tasks answered in-process"),
		queued:    gauge("queue_depth", "Tasks waiting for a free worker"),
		busy:      gauge("busy_workers", "Workers currently running a task"),
		workers:   gauge("workers", "Live workers in the pool"),
	}
	registry.MustRegister(m.submitted, m.completed, m.failed, m.cancelled, m.timedOut, m.fallback, m.queued, m.busy, m.workers)
	return m
}

// rejected 按原因计数：调用方取消或调度器关闭不算作失败
func (m *metrics) rejected(label string, err error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrClosed):
		m.cancelled.WithLabelValues(label).Inc()
	default:
		m.failed.WithLabelValues(label).Inc()
	}
}
