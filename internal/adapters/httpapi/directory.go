package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

type directoryService[T any] interface {
	Create(ctx context.Context, entity T, user domain.UserContext) (T, error)
	Update(ctx context.Context, id string, entity T, user domain.UserContext) (T, error)
	Delete(ctx context.Context, id string, user domain.UserContext) (T, error)
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context) ([]T, error)
}

// mountDirectory registers list/create/get/update/delete routes for one
// directory table under prefix.
func mountDirectory[T any](router chi.Router, h *Handler, prefix, schema string, svc directoryService[T]) {
	router.Get(prefix, func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			h.handleDomainError(w, r, err)
			return
		}
		if items == nil {
			items = []T{}
		}
		h.writeJSON(w, http.StatusOK, map[string]any{"items": items})
	})

	router.Post(prefix, func(w http.ResponseWriter, r *http.Request) {
		var entity T
		if err := decodeBody(w, r, schema, &entity); err != nil {
			h.handleDomainError(w, r, err)
			return
		}
		created, err := svc.Create(r.Context(), entity, userFromContext(r.Context()))
		if err != nil {
			h.handleDomainError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, created)
	})

	router.Get(prefix+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		entity, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.handleDomainError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, entity)
	})

	router.Put(prefix+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		var entity T
		if err := decodeBody(w, r, schema, &entity); err != nil {
			h.handleDomainError(w, r, err)
			return
		}
		updated, err := svc.Update(r.Context(), chi.URLParam(r, "id"), entity, userFromContext(r.Context()))
		if err != nil {
			h.handleDomainError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, updated)
	})

	router.Delete(prefix+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		if _, err := svc.Delete(r.Context(), chi.URLParam(r, "id"), userFromContext(r.Context())); err != nil {
			h.handleDomainError(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	})
}
