package domain

import (
	"encoding/json"
	"strings"
	"time"
)

type AuditAction string

const (
	ActionCreate AuditAction = "CREATE"
	ActionUpdate AuditAction = "UPDATE"
	ActionDelete AuditAction = "DELETE"
)

func ParseAuditAction(raw string) (AuditAction, error) {
	switch a := AuditAction(strings.ToUpper(strings.TrimSpace(raw))); a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return a, nil
	default:
		return "", ErrInvalidAction
	}
}

// Table names the audited record kinds. The values double as storage table
// names and as the audit log's table_name column.
type Table string

const (
	TableClients     Table = "clients"
	TableConsultants Table = "consultants"
	TableCrewMembers Table = "crew_members"
	TableCrewRoles   Table = "crew_roles"
	TableProjects    Table = "projects"
	TableAssignments Table = "assignments"
)

var knownTables = []Table{
	TableClients,
	TableConsultants,
	TableCrewMembers,
	TableCrewRoles,
	TableProjects,
	TableAssignments,
}

func KnownTables() []Table {
	out := make([]Table, len(knownTables))
	copy(out, knownTables)
	return out
}

func ParseTable(raw string) (Table, error) {
	for _, t := range knownTables {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", ErrInvalidTable
}

// AuditLogEntry is one immutable row of the change history. OldValues and
// NewValues hold the full snapshots; ChangedFields is nil for CREATE and
// DELETE and a possibly empty list for UPDATE.
type AuditLogEntry struct {
	ID            string          `json:"id"`
	TableName     Table           `json:"table_name"`
	RecordID      string          `json:"record_id"`
	Action        AuditAction     `json:"action"`
	ChangedFields []string        `json:"changed_fields"`
	OldValues     json.RawMessage `json:"old_values"`
	NewValues     json.RawMessage `json:"new_values"`
	UserID        string          `json:"user_id"`
	UserEmail     string          `json:"user_email"`
	CreatedAt     time.Time       `json:"created_at"`
}

const (
	AuditPageSize     = 50
	MaxAuditPageLimit = 1000
)

type AuditLogFilter struct {
	TableName Table
	Action    AuditAction
	Limit     int
	Offset    int
}

// AuditLogFilterForPage builds the listing filter for a 1-based page number.
func AuditLogFilterForPage(table Table, action AuditAction, page int) (AuditLogFilter, error) {
	if page < 1 {
		return AuditLogFilter{}, ErrInvalidPage
	}
	return AuditLogFilter{
		TableName: table,
		Action:    action,
		Limit:     AuditPageSize,
		Offset:    (page - 1) * AuditPageSize,
	}, nil
}

type AuditLogPage struct {
	Data  []AuditLogEntry `json:"data"`
	Count int64           `json:"count"`
}
