package httpapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

const (
	schemaClient        = "client"
	schemaConsultant    = "consultant"
	schemaCrewRole      = "crew_role"
	schemaCrewMember    = "crew_member"
	schemaProject       = "project"
	schemaAssignment    = "assignment"
	schemaConflictCheck = "conflict_check"
)

// requestSchemas compiles every embedded request body schema once. The files
// ship with the binary, so a compile failure is a build defect.
var requestSchemas = sync.OnceValue(func() map[string]*santhosh.Schema {
	compiled, err := compileSchemas(schemaFiles)
	if err != nil {
		panic(err)
	}
	return compiled
})

func compileSchemas(files fs.FS) (map[string]*santhosh.Schema, error) {
	names, err := fs.Glob(files, "schemas/*.json")
	if err != nil {
		return nil, err
	}

	out := make(map[string]*santhosh.Schema, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		sch, err := compileSchema(name, raw)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		out[strings.TrimSuffix(path.Base(name), ".json")] = sch
	}
	return out, nil
}

func compileSchema(name string, schemaJSON []byte) (*santhosh.Schema, error) {
	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft7
	if err := compiler.AddResource(name, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(name)
}

// validateBody checks a request body against the named resource schema.
func validateBody(resource string, body json.RawMessage) error {
	sch, ok := requestSchemas()[resource]
	if !ok {
		return fmt.Errorf("no request schema for %q", resource)
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("unmarshal body: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		var ve *santhosh.ValidationError
		if errors.As(err, &ve) {
			return &domain.ErrSchemaViolation{Resource: resource, Errors: collectValidationErrors(ve)}
		}
		return &domain.ErrSchemaViolation{Resource: resource, Errors: []string{err.Error()}}
	}
	return nil
}

func collectValidationErrors(ve *santhosh.ValidationError) []string {
	var msgs []string
	for _, cause := range ve.Causes {
		msgs = append(msgs, collectValidationErrors(cause)...)
	}
	if len(ve.Causes) == 0 {
		location := ve.InstanceLocation
		if location == "" {
			location = "/"
		}
		msgs = append(msgs, location+": "+ve.Message)
	}
	return msgs
}
