package domain

import "time"

// ConflictCandidate describes an assignment about to be written. ExcludeID
// names the assignment's own stored record when it is being edited.
type ConflictCandidate struct {
	CrewMemberID string `json:"crew_member_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	ExcludeID    string `json:"exclude_assignment_id,omitempty"`
}

// FindConflicts returns the assignments of the candidate's crew member whose
// closed interval shares at least one day with the candidate. Input order is
// preserved. Entries with unreadable dates never conflict, and neither does a
// candidate with unreadable dates.
func FindConflicts(candidate ConflictCandidate, existing []Assignment) []Assignment {
	conflicts := make([]Assignment, 0)
	start, okStart := ParseDate(candidate.StartDate)
	end, okEnd := ParseDate(candidate.EndDate)
	if !okStart || !okEnd {
		return conflicts
	}

	for _, a := range existing {
		if a.CrewMemberID != candidate.CrewMemberID {
			continue
		}
		if candidate.ExcludeID != "" && a.ID == candidate.ExcludeID {
			continue
		}
		aStart, aEnd, ok := a.Interval()
		if !ok {
			continue
		}
		if Overlaps(start, end, aStart, aEnd) {
			conflicts = append(conflicts, a)
		}
	}
	return conflicts
}

// Overlaps reports whether the closed intervals [s1,e1] and [s2,e2] share a
// day. Touching bounds count as overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}
