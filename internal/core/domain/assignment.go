package domain

import "time"

// Assignment books a crew member onto a project for the closed day interval
// [StartDate, EndDate].
type Assignment struct {
	ID            string    `json:"id"`
	CrewMemberID  string    `json:"crew_member_id" validate:"required,uuid"`
	ProjectID     string    `json:"project_id" validate:"required,uuid"`
	StartDate     string    `json:"start_date" validate:"required,isodate"`
	EndDate       string    `json:"end_date" validate:"required,isodate"`
	RoleOnProject *string   `json:"role_on_project" validate:"omitempty,max=100"`
	Notes         string    `json:"notes" validate:"max=4000"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

func (a Assignment) GetID() string { return a.ID }

func (a Assignment) WithID(id string) Assignment {
	a.ID = id
	return a
}

func (a Assignment) Validate() error {
	if err := validateStruct(a); err != nil {
		return err
	}
	start, _ := ParseDate(a.StartDate)
	end, _ := ParseDate(a.EndDate)
	if start.After(end) {
		return ErrInvalidInterval
	}
	return nil
}

// Interval returns the parsed day bounds. ok is false when either bound is
// unreadable.
func (a Assignment) Interval() (start, end time.Time, ok bool) {
	start, okStart := ParseDate(a.StartDate)
	end, okEnd := ParseDate(a.EndDate)
	return start, end, okStart && okEnd
}
