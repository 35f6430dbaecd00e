// Package metrics exposes dispatcher and worker activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "prefork"

// Collector records dispatch outcomes and worker lifecycle events.
type Collector struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	workerStarts  *prometheus.CounterVec
	workerStops   *prometheus.CounterVec
	workerErrors  *prometheus.CounterVec
	workersActive *prometheus.GaugeVec
	tasks         *prometheus.CounterVec
	registry      *prometheus.Registry
}

// NewCollector creates a collector with its own registry. Go runtime and
// process collectors are registered alongside.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of dispatched requests",
		},
		[]string{"outcome", "code"},
	)

	c.duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of request dispatch",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	c.workerStarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_starts_total",
			Help:      "Total number of worker starts",
		},
		[]string{"kind"},
	)

	c.workerStops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_stops_total",
			Help:      "Total number of worker stops",
		},
		[]string{"kind"},
	)

	c.workerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_errors_total",
			Help:      "Total number of abnormal worker exits",
		},
		[]string{"exit_code"},
	)

	c.workersActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers_active",
			Help:      "Number of running workers",
		},
		[]string{"kind"},
	)

	c.tasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Total number of executed tasks",
		},
		[]string{"status"},
	)

	c.registry.MustRegister(
		c.requests,
		c.duration,
		c.workerStarts,
		c.workerStops,
		c.workerErrors,
		c.workersActive,
		c.tasks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// ObserveDispatch records one dispatched request.
func (c *Collector) ObserveDispatch(outcome string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(outcome, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// WorkerStarted records a worker reaching Ready.
func (c *Collector) WorkerStarted(taskWorker bool) {
	k := kind(taskWorker)
	c.workerStarts.WithLabelValues(k).Inc()
	c.workersActive.WithLabelValues(k).Inc()
}

// WorkerStopped records a worker leaving service.
func (c *Collector) WorkerStopped(taskWorker bool) {
	k := kind(taskWorker)
	c.workerStops.WithLabelValues(k).Inc()
	c.workersActive.WithLabelValues(k).Dec()
}

// WorkerError records an abnormal worker exit.
func (c *Collector) WorkerError(exitCode int) {
	c.workerErrors.WithLabelValues(strconv.Itoa(exitCode)).Inc()
}

// TaskFinished records a task run.
func (c *Collector) TaskFinished(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.tasks.WithLabelValues(status).Inc()
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func kind(taskWorker bool) string {
	if taskWorker {
		return "task"
	}
	return "request"
}
