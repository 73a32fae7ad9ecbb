package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/usecase"
)

const namespace = "crewdesk"

type auditRecorderStats interface {
	Metrics() usecase.AuditRecorderMetrics
}

type outboxDispatcherStats interface {
	Metrics() usecase.OutboxDispatcherMetrics
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// RegisterAuditRecorder exposes the recorder's outcome counters. Values are
// read from the recorder at scrape time.
func RegisterAuditRecorder(reg prometheus.Registerer, rec auditRecorderStats) {
	factory := promauto.With(reg)
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "audit",
		Name:      "entries_written_total",
		Help:      "Total number of audit entries persisted.",
	}, func() float64 { return float64(rec.Metrics().WrittenTotal) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "audit",
		Name:      "entries_failed_total",
		Help:      "Total number of audit entries lost to write failures.",
	}, func() float64 { return float64(rec.Metrics().FailedTotal) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "audit",
		Name:      "entries_skipped_total",
		Help:      "Total number of audit entries skipped for lack of an authenticated user.",
	}, func() float64 { return float64(rec.Metrics().SkippedTotal) })
}

func RegisterOutboxDispatcher(reg prometheus.Registerer, d outboxDispatcherStats) {
	factory := promauto.With(reg)
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "outbox",
		Name:      "dispatch_success_total",
		Help:      "Total number of outbox events delivered.",
	}, func() float64 { return float64(d.Metrics().DispatchSuccessTotal) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "outbox",
		Name:      "dispatch_failure_total",
		Help:      "Total number of failed outbox delivery attempts.",
	}, func() float64 { return float64(d.Metrics().DispatchFailureTotal) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "outbox",
		Name:      "dead_total",
		Help:      "Total number of outbox events that exhausted their retries.",
	}, func() float64 { return float64(d.Metrics().DispatchDeadTotal) })
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
