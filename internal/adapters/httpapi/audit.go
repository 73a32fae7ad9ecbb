package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

func (h *Handler) dashboardMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.svc.Dashboard.Metrics(r.Context())
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, metrics)
}

func (h *Handler) listAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		table  domain.Table
		action domain.AuditAction
		err    error
	)
	if raw := q.Get("table"); raw != "" {
		if table, err = domain.ParseTable(raw); err != nil {
			h.handleDomainError(w, r, err)
			return
		}
	}
	if raw := q.Get("action"); raw != "" {
		if action, err = domain.ParseAuditAction(raw); err != nil {
			h.handleDomainError(w, r, err)
			return
		}
	}
	page := 1
	if raw := q.Get("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil {
			h.handleDomainError(w, r, domain.ErrInvalidPage)
			return
		}
	}

	filter, err := domain.AuditLogFilterForPage(table, action, page)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	result, err := h.svc.Audit.GetAuditLogs(r.Context(), filter)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) recordAuditLogs(w http.ResponseWriter, r *http.Request) {
	table, err := domain.ParseTable(chi.URLParam(r, "table"))
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	entries, err := h.svc.Audit.GetAuditLogsForRecord(r.Context(), table, chi.URLParam(r, "recordID"))
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}
