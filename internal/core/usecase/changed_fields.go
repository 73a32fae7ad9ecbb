package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wI2L/jsondiff"
)

// ChangedFields lists the top-level keys whose values differ between two JSON
// object snapshots. Values are compared structurally, so nested objects and
// arrays only count as changed when their content differs. Keys come out in
// the order of the new snapshot, followed by keys only the old one has.
func ChangedFields(oldValues, newValues json.RawMessage) ([]string, error) {
	patch, err := jsondiff.CompareJSON(oldValues, newValues)
	if err != nil {
		return nil, fmt.Errorf("diff snapshots: %w", err)
	}

	changed := make(map[string]struct{}, len(patch))
	wholeDocument := false
	for _, op := range patch {
		field, ok := topLevelField(op.Path)
		if !ok {
			wholeDocument = true
			continue
		}
		changed[field] = struct{}{}
	}

	out := make([]string, 0, len(changed))
	if len(patch) == 0 {
		return out, nil
	}
	seen := make(map[string]struct{})
	for _, doc := range []json.RawMessage{newValues, oldValues} {
		for _, key := range objectKeys(doc) {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if _, ok := changed[key]; ok || wholeDocument {
				out = append(out, key)
			}
		}
	}
	return out, nil
}

// topLevelField extracts the first reference token of a JSON pointer.
func topLevelField(pointer string) (string, bool) {
	if !strings.HasPrefix(pointer, "/") {
		return "", false
	}
	token := pointer[1:]
	if i := strings.IndexByte(token, '/'); i >= 0 {
		token = token[:i]
	}
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token, true
}

// objectKeys returns the keys of a JSON object in document order, or nil when
// raw is not an object.
func objectKeys(raw json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}
