package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

type memRepo[T domain.Entity[T]] struct {
	mu    sync.Mutex
	items map[string]T
	order []string
}

func newMemRepo[T domain.Entity[T]]() *memRepo[T] {
	return &memRepo[T]{items: make(map[string]T)}
}

func (r *memRepo[T]) Create(_ context.Context, entity T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[entity.GetID()] = entity
	r.order = append(r.order, entity.GetID())
	return entity, nil
}

func (r *memRepo[T]) Update(_ context.Context, entity T) (T, T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	previous, ok := r.items[entity.GetID()]
	if !ok {
		return zero, zero, domain.ErrNotFound
	}
	r.items[entity.GetID()] = entity
	return previous, entity, nil
}

func (r *memRepo[T]) Delete(_ context.Context, id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	previous, ok := r.items[id]
	if !ok {
		return zero, domain.ErrNotFound
	}
	delete(r.items, id)
	return previous, nil
}

func (r *memRepo[T]) Get(_ context.Context, id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return item, nil
}

func (r *memRepo[T]) List(_ context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.items))
	for _, id := range r.order {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

type memAssignmentRepo struct {
	*memRepo[domain.Assignment]
}

func newMemAssignmentRepo() *memAssignmentRepo {
	return &memAssignmentRepo{memRepo: newMemRepo[domain.Assignment]()}
}

func (r *memAssignmentRepo) ListByCrewMember(ctx context.Context, crewMemberID string) ([]domain.Assignment, error) {
	all, _ := r.List(ctx)
	out := make([]domain.Assignment, 0)
	for _, a := range all {
		if a.CrewMemberID == crewMemberID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAssignmentRepo) conflicts(ctx context.Context, a domain.Assignment) error {
	existing, _ := r.ListByCrewMember(ctx, a.CrewMemberID)
	found := domain.FindConflicts(domain.ConflictCandidate{
		CrewMemberID: a.CrewMemberID,
		StartDate:    a.StartDate,
		EndDate:      a.EndDate,
		ExcludeID:    a.ID,
	}, existing)
	if len(found) > 0 {
		return &domain.ConflictError{Conflicts: found}
	}
	return nil
}

func (r *memAssignmentRepo) CreateExclusive(ctx context.Context, a domain.Assignment) (domain.Assignment, error) {
	if err := r.conflicts(ctx, a); err != nil {
		return domain.Assignment{}, err
	}
	return r.Create(ctx, a)
}

func (r *memAssignmentRepo) UpdateExclusive(ctx context.Context, a domain.Assignment) (domain.Assignment, domain.Assignment, error) {
	if err := r.conflicts(ctx, a); err != nil {
		return domain.Assignment{}, domain.Assignment{}, err
	}
	return r.Update(ctx, a)
}

type memAuditRepo struct {
	mu        sync.Mutex
	entries   []domain.AuditLogEntry
	appendErr error
	listErr   error
}

func (r *memAuditRepo) Append(_ context.Context, entry domain.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memAuditRepo) newestFirst() []domain.AuditLogEntry {
	out := make([]domain.AuditLogEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		out = append(out, r.entries[i])
	}
	return out
}

func (r *memAuditRepo) List(_ context.Context, filter domain.AuditLogFilter) ([]domain.AuditLogEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	matched := make([]domain.AuditLogEntry, 0)
	for _, e := range r.newestFirst() {
		if filter.TableName != "" && e.TableName != filter.TableName {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		matched = append(matched, e)
	}
	count := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []domain.AuditLogEntry{}, count, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, count, nil
}

func (r *memAuditRepo) ListForRecord(_ context.Context, table domain.Table, recordID string) ([]domain.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.AuditLogEntry, 0)
	for _, e := range r.newestFirst() {
		if e.TableName == table && e.RecordID == recordID {
			out = append(out, e)
		}
	}
	return out, nil
}

var errStoreDown = errors.New("store down")
