package domain

import "time"

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

type Project struct {
	ID           string        `json:"id"`
	Name         string        `json:"name" validate:"required,max=200"`
	Status       ProjectStatus `json:"status" validate:"required,oneof=planning active on_hold completed cancelled"`
	ClientID     *string       `json:"client_id" validate:"omitempty,uuid"`
	ConsultantID *string       `json:"consultant_id" validate:"omitempty,uuid"`
	Location     string        `json:"location" validate:"max=200"`
	StartDate    string        `json:"start_date" validate:"omitempty,isodate"`
	EndDate      string        `json:"end_date" validate:"omitempty,isodate"`
	CreatedAt    time.Time     `json:"-"`
	UpdatedAt    time.Time     `json:"-"`
}

func (p Project) GetID() string { return p.ID }

func (p Project) WithID(id string) Project {
	p.ID = id
	return p
}

func (p Project) Validate() error {
	if err := validateStruct(p); err != nil {
		return err
	}
	if p.StartDate == "" || p.EndDate == "" {
		return nil
	}
	start, _ := ParseDate(p.StartDate)
	end, _ := ParseDate(p.EndDate)
	if start.After(end) {
		return ErrInvalidInterval
	}
	return nil
}
