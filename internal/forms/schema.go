package forms

import (
	"errors"
	"fmt"
	"strings"
)

// Schema is an ordered list of fields.
type Schema struct {
	Fields []Field
}

// NewSchema creates a schema. Field names must be unique.
func NewSchema(fields ...Field) (Schema, error) {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		name := FieldName(f)
		if name == "" {
			return Schema{}, fmt.Errorf("%w: field without a name", ErrInvalidValue)
		}
		if seen[name] {
			return Schema{}, fmt.Errorf("%w: duplicate field %q", ErrInvalidValue, name)
		}
		seen[name] = true
	}
	return Schema{Fields: fields}, nil
}

// Field returns the field called name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if FieldName(f) == name {
			return f, true
		}
	}
	return nil, false
}

// Defaults returns the initial values of the schema.
func (s Schema) Defaults() map[string]any {
	return Defaults(s.Fields)
}

// ValidationError collects the field errors of one submission.
type ValidationError struct {
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid submission: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	out := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f
	}
	return out
}

// ErrorFor returns the error of field name, or nil.
func (e *ValidationError) ErrorFor(name string) error {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Err
		}
	}
	return nil
}

// DecodeAll decodes a submission. Disabled fields keep their defaults and
// keys without a field are ignored. All field errors are reported together
// as a *ValidationError.
func (s Schema) DecodeAll(raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.Fields))
	var verr ValidationError
	for _, f := range s.Fields {
		name := FieldName(f)
		if f.base().Disabled {
			out[name] = Default(f)
			continue
		}
		v, err := Decode(f, raw[name])
		if err != nil {
			var fe *FieldError
			if !errors.As(err, &fe) {
				fe = &FieldError{Field: name, Err: err}
			}
			verr.Fields = append(verr.Fields, fe)
			continue
		}
		out[name] = v
	}
	if len(verr.Fields) > 0 {
		return out, &verr
	}
	return out, nil
}
