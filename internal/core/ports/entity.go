package ports

import (
	"context"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

// EntityRepository stores one record kind. Update and Delete hand back the
// stored state they replaced so callers can snapshot it.
type EntityRepository[T any] interface {
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) (previous T, updated T, err error)
	Delete(ctx context.Context, id string) (T, error)
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context) ([]T, error)
}

type AssignmentRepository interface {
	EntityRepository[domain.Assignment]
	ListByCrewMember(ctx context.Context, crewMemberID string) ([]domain.Assignment, error)
	// CreateExclusive and UpdateExclusive re-check conflicts and write in one
	// serialized transaction. They return *domain.ConflictError when the
	// assignment would overlap another one of the same crew member.
	CreateExclusive(ctx context.Context, a domain.Assignment) (domain.Assignment, error)
	UpdateExclusive(ctx context.Context, a domain.Assignment) (previous domain.Assignment, updated domain.Assignment, err error)
}
