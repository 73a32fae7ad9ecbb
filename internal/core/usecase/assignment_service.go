package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/ports"
)

// ConflictDetail is what a user sees about an assignment that overlaps the
// one being saved.
type ConflictDetail struct {
	AssignmentID string `json:"assignment_id"`
	CrewMemberID string `json:"crew_member_id"`
	ProjectID    string `json:"project_id"`
	ProjectName  string `json:"project_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

type AssignmentService struct {
	repo     ports.AssignmentRepository
	projects ports.EntityRepository[domain.Project]
	recorder *AuditRecorder
	newID    func() string
}

func NewAssignmentService(repo ports.AssignmentRepository, projects ports.EntityRepository[domain.Project], recorder *AuditRecorder) *AssignmentService {
	return &AssignmentService{repo: repo, projects: projects, recorder: recorder, newID: uuid.NewString}
}

// CheckConflicts is the advisory pre-check run before a save.
func (s *AssignmentService) CheckConflicts(ctx context.Context, candidate domain.ConflictCandidate) ([]ConflictDetail, error) {
	if err := domain.ValidateID(candidate.CrewMemberID); err != nil {
		return nil, err
	}
	existing, err := s.repo.ListByCrewMember(ctx, candidate.CrewMemberID)
	if err != nil {
		return nil, fmt.Errorf("load crew assignments: %w", err)
	}
	return s.DescribeConflicts(ctx, domain.FindConflicts(candidate, existing))
}

// Create stores a new assignment. Unless force is set, an overlap with another
// assignment of the same crew member fails with *domain.ConflictError.
func (s *AssignmentService) Create(ctx context.Context, a domain.Assignment, user domain.UserContext, force bool) (domain.Assignment, error) {
	a = a.WithID(s.newID())
	if err := a.Validate(); err != nil {
		return domain.Assignment{}, err
	}

	var (
		created domain.Assignment
		err     error
	)
	if force {
		created, err = s.repo.Create(ctx, a)
	} else {
		created, err = s.repo.CreateExclusive(ctx, a)
	}
	if err != nil {
		return domain.Assignment{}, err
	}
	s.recorder.LogCreate(ctx, domain.TableAssignments, created.ID, created, user)
	return created, nil
}

func (s *AssignmentService) Update(ctx context.Context, id string, a domain.Assignment, user domain.UserContext, force bool) (domain.Assignment, error) {
	if err := domain.ValidateID(id); err != nil {
		return domain.Assignment{}, err
	}
	a = a.WithID(id)
	if err := a.Validate(); err != nil {
		return domain.Assignment{}, err
	}

	var (
		previous, updated domain.Assignment
		err               error
	)
	if force {
		previous, updated, err = s.repo.Update(ctx, a)
	} else {
		previous, updated, err = s.repo.UpdateExclusive(ctx, a)
	}
	if err != nil {
		return domain.Assignment{}, err
	}
	s.recorder.LogUpdate(ctx, domain.TableAssignments, id, previous, updated, user)
	return updated, nil
}

func (s *AssignmentService) Delete(ctx context.Context, id string, user domain.UserContext) (domain.Assignment, error) {
	if err := domain.ValidateID(id); err != nil {
		return domain.Assignment{}, err
	}
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return domain.Assignment{}, err
	}
	s.recorder.LogDelete(ctx, domain.TableAssignments, id, removed, user)
	return removed, nil
}

func (s *AssignmentService) Get(ctx context.Context, id string) (domain.Assignment, error) {
	if err := domain.ValidateID(id); err != nil {
		return domain.Assignment{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *AssignmentService) List(ctx context.Context) ([]domain.Assignment, error) {
	return s.repo.List(ctx)
}

// DescribeConflicts attaches project names to conflicting assignments. A
// project that no longer exists leaves the name empty.
func (s *AssignmentService) DescribeConflicts(ctx context.Context, conflicts []domain.Assignment) ([]ConflictDetail, error) {
	names := make(map[string]string)
	details := make([]ConflictDetail, 0, len(conflicts))
	for _, c := range conflicts {
		name, ok := names[c.ProjectID]
		if !ok {
			project, err := s.projects.Get(ctx, c.ProjectID)
			switch {
			case err == nil:
				name = project.Name
			case errors.Is(err, domain.ErrNotFound):
			default:
				return nil, fmt.Errorf("load project %s: %w", c.ProjectID, err)
			}
			names[c.ProjectID] = name
		}
		details = append(details, ConflictDetail{
			AssignmentID: c.ID,
			CrewMemberID: c.CrewMemberID,
			ProjectID:    c.ProjectID,
			ProjectName:  name,
			StartDate:    c.StartDate,
			EndDate:      c.EndDate,
		})
	}
	return details, nil
}
