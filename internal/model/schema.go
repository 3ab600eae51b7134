// internal/model/schema.go
package model

import (
	"encoding/json"
	"fmt"

	appErrors "github.com/unclebandit/orders-backend/internal/errors"
)

// Kind is the JSON type a field accepts
type Kind string

const (
	KindString Kind = "string"
)

// Field describes one mutable attribute of T. Decode and Encode are bound to a
// concrete struct field, so import and export never reflect over T.
type Field[T any] struct {
	Name     string
	Kind     Kind
	Required bool
	Decode   func(dst *T, raw json.RawMessage) error
	Encode   func(src *T) any
}

// Schema is the wire contract of a resource: what a client may send and what
// it gets back. The primary key is never part of it.
type Schema[T any] struct {
	Resource string
	Fields   []Field[T]
}

// StringField binds a string attribute of T
func StringField[T any](name string, required bool, ptr func(*T) *string) Field[T] {
	return Field[T]{
		Name:     name,
		Kind:     KindString,
		Required: required,
		Decode: func(dst *T, raw json.RawMessage) error {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("decode %s: %w", name, err)
			}
			*ptr(dst) = s
			return nil
		},
		Encode: func(src *T) any {
			return *ptr(src)
		},
	}
}

// Import applies body onto dst. dst is left untouched when any field fails.
// Absent and null keys count as missing; unknown keys are ignored.
func (s Schema[T]) Import(dst *T, body map[string]json.RawMessage) error {
	next := *dst
	for _, f := range s.Fields {
		raw, ok := body[f.Name]
		if !ok || isNull(raw) {
			if f.Required {
				return appErrors.NewMissingField(s.Resource, f.Name)
			}
			continue
		}
		if err := f.Decode(&next, raw); err != nil {
			return appErrors.NewInvalidField(s.Resource, f.Name)
		}
	}
	*dst = next
	return nil
}

// Export renders the schema fields of src
func (s Schema[T]) Export(src *T) map[string]any {
	out := make(map[string]any, len(s.Fields)+2)
	for _, f := range s.Fields {
		out[f.Name] = f.Encode(src)
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
