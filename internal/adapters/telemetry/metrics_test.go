package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/usecase"
)

type recorderStub struct{ m usecase.AuditRecorderMetrics }

func (s recorderStub) Metrics() usecase.AuditRecorderMetrics { return s.m }

type dispatcherStub struct{ m usecase.OutboxDispatcherMetrics }

func (s dispatcherStub) Metrics() usecase.OutboxDispatcherMetrics { return s.m }

func gatherValues(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				out[mf.GetName()] = c.GetValue()
			}
		}
	}
	return out
}

func TestRegisterAuditRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterAuditRecorder(reg, recorderStub{m: usecase.AuditRecorderMetrics{WrittenTotal: 7, FailedTotal: 2, SkippedTotal: 1}})

	values := gatherValues(t, reg)
	assert.Equal(t, 7.0, values["crewdesk_audit_entries_written_total"])
	assert.Equal(t, 2.0, values["crewdesk_audit_entries_failed_total"])
	assert.Equal(t, 1.0, values["crewdesk_audit_entries_skipped_total"])
}

func TestRegisterOutboxDispatcher(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterOutboxDispatcher(reg, dispatcherStub{m: usecase.OutboxDispatcherMetrics{DispatchSuccessTotal: 10, DispatchFailureTotal: 3, DispatchDeadTotal: 1}})

	values := gatherValues(t, reg)
	assert.Equal(t, 10.0, values["crewdesk_outbox_dispatch_success_total"])
	assert.Equal(t, 3.0, values["crewdesk_outbox_dispatch_failure_total"])
	assert.Equal(t, 1.0, values["crewdesk_outbox_dead_total"])
}

func TestHandlerServesExposition(t *testing.T) {
	reg := NewRegistry()
	RegisterAuditRecorder(reg, recorderStub{m: usecase.AuditRecorderMetrics{WrittenTotal: 4}})

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "crewdesk_audit_entries_written_total 4")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
