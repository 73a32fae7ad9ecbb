package domain

import "time"

type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required,max=200"`
	ContactName  string    `json:"contact_name" validate:"max=200"`
	ContactEmail string    `json:"contact_email" validate:"omitempty,email"`
	Phone        string    `json:"phone" validate:"max=50"`
	Notes        string    `json:"notes" validate:"max=4000"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (c Client) GetID() string { return c.ID }

func (c Client) WithID(id string) Client {
	c.ID = id
	return c
}

func (c Client) Validate() error { return validateStruct(c) }

type Consultant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,max=200"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Phone     string    `json:"phone" validate:"max=50"`
	Company   string    `json:"company" validate:"max=200"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (c Consultant) GetID() string { return c.ID }

func (c Consultant) WithID(id string) Consultant {
	c.ID = id
	return c
}

func (c Consultant) Validate() error { return validateStruct(c) }

// CrewRole is an entry of the role catalogue crew members and assignments
// pick their labels from.
type CrewRole struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description" validate:"max=1000"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (r CrewRole) GetID() string { return r.ID }

func (r CrewRole) WithID(id string) CrewRole {
	r.ID = id
	return r
}

func (r CrewRole) Validate() error { return validateStruct(r) }
