package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/usecase"
)

type conflictResponse struct {
	Error     string                   `json:"error"`
	Conflicts []usecase.ConflictDetail `json:"conflicts"`
}

func (h *Handler) listAssignments(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Assignments.List(r.Context())
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Assignment{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) getAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Assignments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *Handler) createAssignment(w http.ResponseWriter, r *http.Request) {
	force, ok := h.parseForce(w, r)
	if !ok {
		return
	}
	var a domain.Assignment
	if err := decodeBody(w, r, schemaAssignment, &a); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	created, err := h.svc.Assignments.Create(r.Context(), a, userFromContext(r.Context()), force)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateAssignment(w http.ResponseWriter, r *http.Request) {
	force, ok := h.parseForce(w, r)
	if !ok {
		return
	}
	var a domain.Assignment
	if err := decodeBody(w, r, schemaAssignment, &a); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	updated, err := h.svc.Assignments.Update(r.Context(), chi.URLParam(r, "id"), a, userFromContext(r.Context()), force)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Assignments.Delete(r.Context(), chi.URLParam(r, "id"), userFromContext(r.Context())); err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) checkConflicts(w http.ResponseWriter, r *http.Request) {
	var candidate domain.ConflictCandidate
	if err := decodeBody(w, r, schemaConflictCheck, &candidate); err != nil {
		h.handleDomainError(w, r, err)
		return
	}

	conflicts, err := h.svc.Assignments.CheckConflicts(r.Context(), candidate)
	if err != nil {
		h.handleDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"has_conflicts": len(conflicts) > 0,
		"conflicts":     conflicts,
	})
}

// writeConflict answers a blocked assignment write with the overlapping
// bookings so the caller can decide whether to force the save.
func (h *Handler) writeConflict(w http.ResponseWriter, r *http.Request, conflictErr *domain.ConflictError) {
	details, err := h.svc.Assignments.DescribeConflicts(r.Context(), conflictErr.Conflicts)
	if err != nil {
		h.log.Warn("describe conflicts", zap.Error(err))
		details = make([]usecase.ConflictDetail, 0, len(conflictErr.Conflicts))
		for _, c := range conflictErr.Conflicts {
			details = append(details, usecase.ConflictDetail{
				AssignmentID: c.ID,
				CrewMemberID: c.CrewMemberID,
				ProjectID:    c.ProjectID,
				StartDate:    c.StartDate,
				EndDate:      c.EndDate,
			})
		}
	}
	h.writeJSON(w, http.StatusConflict, conflictResponse{
		Error:     "crew member is already booked for part of this period",
		Conflicts: details,
	})
}

func (h *Handler) parseForce(w http.ResponseWriter, r *http.Request) (bool, bool) {
	raw := r.URL.Query().Get("force")
	if raw == "" {
		return false, true
	}
	force, err := strconv.ParseBool(raw)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "force must be boolean")
		return false, false
	}
	return force, true
}
