package domain

import (
	"fmt"
	"strings"
)

// ErrSchemaViolation is returned when a request body does not conform to the
// JSON schema of the resource it targets. The Errors field contains
// machine-readable details.
type ErrSchemaViolation struct {
	Resource string
	Errors   []string
}

func (e *ErrSchemaViolation) Error() string {
	return fmt.Sprintf("%s schema validation failed: %s", e.Resource, strings.Join(e.Errors, "; "))
}
