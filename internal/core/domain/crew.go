package domain

import "time"

type CrewStatus string

const (
	CrewAvailable CrewStatus = "available"
	CrewAssigned  CrewStatus = "assigned"
	CrewOnLeave   CrewStatus = "on_leave"
	CrewInactive  CrewStatus = "inactive"
)

type CrewMember struct {
	ID        string     `json:"id"`
	Name      string     `json:"name" validate:"required,max=200"`
	Email     string     `json:"email" validate:"omitempty,email"`
	Phone     string     `json:"phone" validate:"max=50"`
	Role      string     `json:"role" validate:"max=100"`
	Status    CrewStatus `json:"status" validate:"required,oneof=available assigned on_leave inactive"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

func (m CrewMember) GetID() string { return m.ID }

func (m CrewMember) WithID(id string) CrewMember {
	m.ID = id
	return m
}

func (m CrewMember) Validate() error { return validateStruct(m) }
