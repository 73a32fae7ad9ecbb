package sqlite

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/crewdesk/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

type AssignmentRepository struct {
	*EntityRepository[domain.Assignment, assignmentModel, *assignmentModel]
}

func NewAssignmentRepository(db *gormsqlite.DB) *AssignmentRepository {
	return &AssignmentRepository{
		EntityRepository: newEntityRepository[domain.Assignment, assignmentModel, *assignmentModel](db, domain.TableAssignments, assignmentToModel, assignmentFromModel),
	}
}

func (r *AssignmentRepository) ListByCrewMember(ctx context.Context, crewMemberID string) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		var err error
		out, err = r.listByCrewMemberTx(tx, crewMemberID)
		return err
	})
	return out, err
}

// CreateExclusive runs the overlap check and the insert on the single writer
// connection, so no other assignment write can slip in between.
func (r *AssignmentRepository) CreateExclusive(ctx context.Context, a domain.Assignment) (domain.Assignment, error) {
	var created domain.Assignment
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		if err := r.checkConflictsTx(tx, a); err != nil {
			return err
		}
		var err error
		created, err = r.createTx(tx, a)
		return err
	})
	return created, err
}

func (r *AssignmentRepository) UpdateExclusive(ctx context.Context, a domain.Assignment) (domain.Assignment, domain.Assignment, error) {
	var previous, updated domain.Assignment
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		if err := r.checkConflictsTx(tx, a); err != nil {
			return err
		}
		var err error
		previous, updated, err = r.updateTx(tx, a)
		return err
	})
	return previous, updated, err
}

func (r *AssignmentRepository) checkConflictsTx(tx *gormsqlite.Tx, a domain.Assignment) error {
	existing, err := r.listByCrewMemberTx(tx, a.CrewMemberID)
	if err != nil {
		return err
	}
	conflicts := domain.FindConflicts(domain.ConflictCandidate{
		CrewMemberID: a.CrewMemberID,
		StartDate:    a.StartDate,
		EndDate:      a.EndDate,
		ExcludeID:    a.ID,
	}, existing)
	if len(conflicts) > 0 {
		return &domain.ConflictError{Conflicts: conflicts}
	}
	return nil
}

func (r *AssignmentRepository) listByCrewMemberTx(tx *gormsqlite.Tx, crewMemberID string) ([]domain.Assignment, error) {
	var rows []assignmentModel
	err := tx.Where("crew_member_id = ?", crewMemberID).
		Order("start_date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list assignments for crew member: %w", err)
	}
	return r.mapRows(rows), nil
}
