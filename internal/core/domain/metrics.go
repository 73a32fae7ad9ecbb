package domain

import "time"

const (
	// MinCrewPerProject is the number of live assignments an active project
	// needs before it stops counting as understaffed.
	MinCrewPerProject = 3
	// DepartureWindowDays bounds the upcoming departures window.
	DepartureWindowDays = 7
)

type DashboardMetrics struct {
	ActiveProjects      int `json:"activeProjects"`
	AvailableCrew       int `json:"availableCrew"`
	CrewOnProjects      int `json:"crewOnProjects"`
	UpcomingDepartures  int `json:"upcomingDepartures"`
	ProjectsNeedingCrew int `json:"projectsNeedingCrew"`
}

func CalculateDashboardMetrics(projects []Project, crew []CrewMember, assignments []Assignment) DashboardMetrics {
	return CalculateDashboardMetricsAt(time.Now(), projects, crew, assignments)
}

// CalculateDashboardMetricsAt computes every counter against the calendar day
// of now. An assignment is live while its end date is today or later, which
// includes assignments that have not started yet.
func CalculateDashboardMetricsAt(now time.Time, projects []Project, crew []CrewMember, assignments []Assignment) DashboardMetrics {
	today := StartOfDay(now)
	windowEnd := today.AddDate(0, 0, DepartureWindowDays)

	var m DashboardMetrics

	crewOnProjects := make(map[string]struct{})
	liveByProject := make(map[string]int)
	for _, a := range assignments {
		end, ok := ParseDate(a.EndDate)
		if !ok || end.Before(today) {
			continue
		}
		crewOnProjects[a.CrewMemberID] = struct{}{}
		liveByProject[a.ProjectID]++
		if !end.After(windowEnd) {
			m.UpcomingDepartures++
		}
	}
	m.CrewOnProjects = len(crewOnProjects)

	for _, p := range projects {
		if p.Status != ProjectActive {
			continue
		}
		m.ActiveProjects++
		if liveByProject[p.ID] < MinCrewPerProject {
			m.ProjectsNeedingCrew++
		}
	}

	for _, c := range crew {
		if c.Status == CrewAvailable {
			m.AvailableCrew++
		}
	}

	return m
}
