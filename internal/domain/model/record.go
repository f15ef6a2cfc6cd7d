// Package model contains domain models passed between layers.
package model

import (
	"github.com/mitchellh/copystructure"
)

// Record is a single entity as served by the API. Fixture data is irregular,
// so records stay schemaless field maps and are passed through verbatim.
type Record map[string]any

// Clone returns a deep copy of r. Nested maps and lists are copied as well,
// so mutating the clone never reaches back into r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	cp, err := copystructure.Copy(map[string]any(r))
	if err != nil {
		// copystructure only fails on values it cannot walk (funcs, chans),
		// which never occur in decoded JSON or YAML. Fall back to a
		// top-level copy rather than dropping the record.
		out := make(Record, len(r))
		for k, v := range r {
			out[k] = v
		}
		return out
	}
	return Record(cp.(map[string]any))
}

// String returns the value stored under key when it is a string.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IsUnset reports whether key is absent, null or an empty string.
func (r Record) IsUnset(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return true
	}
	s, isString := v.(string)
	return isString && s == ""
}

// Merge copies every field of changes into r, overwriting existing keys.
// Keys not present in changes are left untouched.
func (r Record) Merge(changes Record) {
	for k, v := range changes {
		r[k] = v
	}
}

// CloneAll deep-copies every record of src into a new slice. The result is
// never nil so it encodes as an empty JSON array.
func CloneAll(src []Record) []Record {
	out := make([]Record, 0, len(src))
	for _, r := range src {
		out = append(out, r.Clone())
	}
	return out
}
