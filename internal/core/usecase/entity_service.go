package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/ports"
)

// EntityService runs create/update/delete for one directory table and records
// each successful write in the audit trail.
type EntityService[T domain.Entity[T]] struct {
	table    domain.Table
	repo     ports.EntityRepository[T]
	recorder *AuditRecorder
	newID    func() string
}

func NewEntityService[T domain.Entity[T]](table domain.Table, repo ports.EntityRepository[T], recorder *AuditRecorder) *EntityService[T] {
	return &EntityService[T]{table: table, repo: repo, recorder: recorder, newID: uuid.NewString}
}

func (s *EntityService[T]) Table() domain.Table { return s.table }

func (s *EntityService[T]) Create(ctx context.Context, entity T, user domain.UserContext) (T, error) {
	var zero T
	entity = entity.WithID(s.newID())
	if err := entity.Validate(); err != nil {
		return zero, err
	}

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return zero, err
	}
	s.recorder.LogCreate(ctx, s.table, created.GetID(), created, user)
	return created, nil
}

func (s *EntityService[T]) Update(ctx context.Context, id string, entity T, user domain.UserContext) (T, error) {
	var zero T
	if err := domain.ValidateID(id); err != nil {
		return zero, err
	}
	entity = entity.WithID(id)
	if err := entity.Validate(); err != nil {
		return zero, err
	}

	previous, updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		return zero, err
	}
	s.recorder.LogUpdate(ctx, s.table, id, previous, updated, user)
	return updated, nil
}

func (s *EntityService[T]) Delete(ctx context.Context, id string, user domain.UserContext) (T, error) {
	var zero T
	if err := domain.ValidateID(id); err != nil {
		return zero, err
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return zero, err
	}
	s.recorder.LogDelete(ctx, s.table, id, removed, user)
	return removed, nil
}

func (s *EntityService[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := domain.ValidateID(id); err != nil {
		return zero, err
	}
	return s.repo.Get(ctx, id)
}

func (s *EntityService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}
