package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidTable    = errors.New("invalid table name")
	ErrInvalidAction   = errors.New("invalid audit action")
	ErrInvalidInterval = errors.New("start_date must not be after end_date")
	ErrInvalidPage     = errors.New("invalid page")
)

// ErrValidation lists field-level violations found on an entity before it is
// written.
type ErrValidation struct {
	Fields []FieldViolation
}

type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (e *ErrValidation) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" ("+f.Rule+")")
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, ", "))
}

// ConflictError is returned when an assignment write would double-book a crew
// member and the caller did not force the save.
type ConflictError struct {
	Conflicts []Assignment
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		ids = append(ids, c.ID)
	}
	return fmt.Sprintf("assignment overlaps %d existing assignment(s): %s", len(e.Conflicts), strings.Join(ids, ", "))
}
