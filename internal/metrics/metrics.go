// Package metrics collects Prometheus metrics for a single janitor run and
// optionally pushes them to a Pushgateway.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "snapshot_janitor"

// Metrics holds the collectors of one run on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	freeBytes         prometheus.Gauge
	cleanupTriggered  prometheus.Gauge
	leavesScanned     prometheus.Counter
	foldersDeleted    prometheus.Counter
	deleteFailures    prometheus.Counter
	walkErrors        prometheus.Counter
	lastRunTimestamp  prometheus.Gauge
	notificationsSent prometheus.Counter
}

// New creates and registers the run metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		freeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "free_bytes",
			Help:      "Free bytes on the monitored drive at the start of the run",
		}),
		cleanupTriggered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cleanup_triggered",
			Help:      "1 if free space was at or below the threshold, 0 otherwise",
		}),
		leavesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaves_scanned_total",
			Help:      "Camera directories evaluated for retention",
		}),
		foldersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "folders_deleted_total",
			Help:      "Date folders removed",
		}),
		deleteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "folder_delete_failures_total",
			Help:      "Date folders that could not be removed",
		}),
		walkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "walk_errors_total",
			Help:      "Directories that could not be listed",
		}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the run finished",
		}),
		notificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Notifications delivered",
		}),
	}

	m.registry.MustRegister(
		m.freeBytes,
		m.cleanupTriggered,
		m.leavesScanned,
		m.foldersDeleted,
		m.deleteFailures,
		m.walkErrors,
		m.lastRunTimestamp,
		m.notificationsSent,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveFreeBytes(b uint64) {
	m.freeBytes.Set(float64(b))
}

func (m *Metrics) ObserveTriggered(triggered bool) {
	if triggered {
		m.cleanupTriggered.Set(1)
		return
	}
	m.cleanupTriggered.Set(0)
}

func (m *Metrics) LeafScanned() { m.leavesScanned.Inc() }

// Deleted records one deletion attempt.
func (m *Metrics) Deleted(ok bool) {
	if ok {
		m.foldersDeleted.Inc()
		return
	}
	m.deleteFailures.Inc()
}

func (m *Metrics) WalkError() { m.walkErrors.Inc() }

func (m *Metrics) NotificationSent() { m.notificationsSent.Inc() }

// Finish stamps the completion time.
func (m *Metrics) Finish(now time.Time) {
	m.lastRunTimestamp.Set(float64(now.Unix()))
}

// Push replaces the metrics of job on the Pushgateway at url.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
