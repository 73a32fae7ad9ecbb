package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/crewdesk/internal/core/ports"
)

type DashboardService struct {
	projects    ports.EntityRepository[domain.Project]
	crew        ports.EntityRepository[domain.CrewMember]
	assignments ports.EntityRepository[domain.Assignment]
	now         func() time.Time
}

func NewDashboardService(projects ports.EntityRepository[domain.Project], crew ports.EntityRepository[domain.CrewMember], assignments ports.EntityRepository[domain.Assignment]) *DashboardService {
	return &DashboardService{projects: projects, crew: crew, assignments: assignments, now: time.Now}
}

// Metrics fetches fresh snapshots and aggregates them.
func (s *DashboardService) Metrics(ctx context.Context) (domain.DashboardMetrics, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return domain.DashboardMetrics{}, fmt.Errorf("load projects: %w", err)
	}
	crew, err := s.crew.List(ctx)
	if err != nil {
		return domain.DashboardMetrics{}, fmt.Errorf("load crew: %w", err)
	}
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return domain.DashboardMetrics{}, fmt.Errorf("load assignments: %w", err)
	}
	return domain.CalculateDashboardMetricsAt(s.now(), projects, crew, assignments), nil
}
