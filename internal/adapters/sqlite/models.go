package sqlite

import (
	"time"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

// Timestamps is embedded by every directory model. The repository stamps the
// values itself instead of relying on gorm's automatic tracking.
type Timestamps struct {
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (t *Timestamps) stamp(createdAt, updatedAt time.Time) {
	t.CreatedAt = createdAt
	t.UpdatedAt = updatedAt
}

func (t *Timestamps) created() time.Time { return t.CreatedAt }

type clientModel struct {
	ID           string `gorm:"column:id;primaryKey"`
	Name         string `gorm:"column:name;not null"`
	ContactName  string `gorm:"column:contact_name;not null"`
	ContactEmail string `gorm:"column:contact_email;not null"`
	Phone        string `gorm:"column:phone;not null"`
	Notes        string `gorm:"column:notes;not null"`
	Timestamps
}

func (clientModel) TableName() string { return string(domain.TableClients) }

func clientToModel(c domain.Client) clientModel {
	return clientModel{
		ID:           c.ID,
		Name:         c.Name,
		ContactName:  c.ContactName,
		ContactEmail: c.ContactEmail,
		Phone:        c.Phone,
		Notes:        c.Notes,
		Timestamps:   Timestamps{CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt},
	}
}

func clientFromModel(m clientModel) domain.Client {
	return domain.Client{
		ID:           m.ID,
		Name:         m.Name,
		ContactName:  m.ContactName,
		ContactEmail: m.ContactEmail,
		Phone:        m.Phone,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type consultantModel struct {
	ID      string `gorm:"column:id;primaryKey"`
	Name    string `gorm:"column:name;not null"`
	Email   string `gorm:"column:email;not null"`
	Phone   string `gorm:"column:phone;not null"`
	Company string `gorm:"column:company;not null"`
	Timestamps
}

func (consultantModel) TableName() string { return string(domain.TableConsultants) }

func consultantToModel(c domain.Consultant) consultantModel {
	return consultantModel{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Company:    c.Company,
		Timestamps: Timestamps{CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt},
	}
}

func consultantFromModel(m consultantModel) domain.Consultant {
	return domain.Consultant{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Company:   m.Company,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type crewRoleModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name;not null"`
	Description string `gorm:"column:description;not null"`
	Timestamps
}

func (crewRoleModel) TableName() string { return string(domain.TableCrewRoles) }

func crewRoleToModel(r domain.CrewRole) crewRoleModel {
	return crewRoleModel{ID: r.ID, Name: r.Name, Description: r.Description, Timestamps: Timestamps{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}}
}

func crewRoleFromModel(m crewRoleModel) domain.CrewRole {
	return domain.CrewRole{ID: m.ID, Name: m.Name, Description: m.Description, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

type crewMemberModel struct {
	ID     string `gorm:"column:id;primaryKey"`
	Name   string `gorm:"column:name;not null"`
	Email  string `gorm:"column:email;not null"`
	Phone  string `gorm:"column:phone;not null"`
	Role   string `gorm:"column:role;not null"`
	Status string `gorm:"column:status;not null"`
	Timestamps
}

func (crewMemberModel) TableName() string { return string(domain.TableCrewMembers) }

func crewMemberToModel(c domain.CrewMember) crewMemberModel {
	return crewMemberModel{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Role:       c.Role,
		Status:     string(c.Status),
		Timestamps: Timestamps{CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt},
	}
}

func crewMemberFromModel(m crewMemberModel) domain.CrewMember {
	return domain.CrewMember{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Role:      m.Role,
		Status:    domain.CrewStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type projectModel struct {
	ID           string  `gorm:"column:id;primaryKey"`
	Name         string  `gorm:"column:name;not null"`
	Status       string  `gorm:"column:status;not null"`
	ClientID     *string `gorm:"column:client_id"`
	ConsultantID *string `gorm:"column:consultant_id"`
	Location     string  `gorm:"column:location;not null"`
	StartDate    string  `gorm:"column:start_date;not null"`
	EndDate      string  `gorm:"column:end_date;not null"`
	Timestamps
}

func (projectModel) TableName() string { return string(domain.TableProjects) }

func projectToModel(p domain.Project) projectModel {
	return projectModel{
		ID:           p.ID,
		Name:         p.Name,
		Status:       string(p.Status),
		ClientID:     p.ClientID,
		ConsultantID: p.ConsultantID,
		Location:     p.Location,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Timestamps:   Timestamps{CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt},
	}
}

func projectFromModel(m projectModel) domain.Project {
	return domain.Project{
		ID:           m.ID,
		Name:         m.Name,
		Status:       domain.ProjectStatus(m.Status),
		ClientID:     m.ClientID,
		ConsultantID: m.ConsultantID,
		Location:     m.Location,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type assignmentModel struct {
	ID            string  `gorm:"column:id;primaryKey"`
	CrewMemberID  string  `gorm:"column:crew_member_id;not null"`
	ProjectID     string  `gorm:"column:project_id;not null"`
	StartDate     string  `gorm:"column:start_date;not null"`
	EndDate       string  `gorm:"column:end_date;not null"`
	RoleOnProject *string `gorm:"column:role_on_project"`
	Notes         string  `gorm:"column:notes;not null"`
	Timestamps
}

func (assignmentModel) TableName() string { return string(domain.TableAssignments) }

func assignmentToModel(a domain.Assignment) assignmentModel {
	return assignmentModel{
		ID:            a.ID,
		CrewMemberID:  a.CrewMemberID,
		ProjectID:     a.ProjectID,
		StartDate:     a.StartDate,
		EndDate:       a.EndDate,
		RoleOnProject: a.RoleOnProject,
		Notes:         a.Notes,
		Timestamps:    Timestamps{CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt},
	}
}

func assignmentFromModel(m assignmentModel) domain.Assignment {
	return domain.Assignment{
		ID:            m.ID,
		CrewMemberID:  m.CrewMemberID,
		ProjectID:     m.ProjectID,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		RoleOnProject: m.RoleOnProject,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
