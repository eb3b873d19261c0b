package forms

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrUnknownOption = errors.New("unknown option")
	ErrInvalidValue  = errors.New("invalid value")
	ErrRequired      = errors.New("required")
)

// FieldError ties a decode failure to a field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Decode coerces raw into the value type of field: string for text,
// password, textarea and select; []string for multi-select; bool for
// checkbox and switch; float64 for slider; time.Time for date. A nil raw
// decodes to the field's default.
func Decode(field Field, raw any) (any, error) {
	var (
		v   any
		err error
	)
	switch f := field.(type) {
	case TextField:
		v, err = decodeText(f, raw)
	case PasswordField:
		v, err = decodePassword(f, raw)
	case TextareaField:
		v, err = decodeTextarea(f, raw)
	case SelectField:
		v, err = decodeSelect(f, raw)
	case MultiSelectField:
		v, err = decodeMultiSelect(f, raw)
	case CheckboxField:
		v, err = decodeBool(f.Base, raw)
	case SwitchField:
		v, err = decodeBool(f.Base, raw)
	case SliderField:
		v, err = decodeSlider(f, raw)
	case DateField:
		v, err = decodeDate(f, raw)
	default:
		return nil, fmt.Errorf("%w: unsupported field %T", ErrInvalidValue, field)
	}
	if err != nil {
		return nil, &FieldError{Field: FieldName(field), Err: err}
	}
	return v, nil
}

// Default returns the initial value of field.
func Default(field Field) any {
	switch f := field.(type) {
	case TextField, PasswordField, TextareaField, SelectField:
		return ""
	case MultiSelectField:
		return []string{}
	case CheckboxField, SwitchField:
		return false
	case SliderField:
		return f.Min
	case DateField:
		return time.Time{}
	}
	return nil
}

// Defaults returns the initial value of every field keyed by name.
func Defaults(fields []Field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[FieldName(f)] = Default(f)
	}
	return out
}

func asString(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return "", fmt.Errorf("%w: expected text, got %T", ErrInvalidValue, raw)
}

func decodeText(f TextField, raw any) (any, error) {
	s, err := asString(raw)
	if err != nil {
		return nil, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		if f.Required {
			return nil, ErrRequired
		}
		return "", nil
	}
	if f.MaxLength > 0 && utf8.RuneCountInString(s) > f.MaxLength {
		return nil, fmt.Errorf("%w: longer than %d characters", ErrInvalidValue, f.MaxLength)
	}
	switch f.InputType {
	case InputEmail:
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return nil, fmt.Errorf("%w: %q is not an email address", ErrInvalidValue, s)
		}
	case InputURL:
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: %q is not a URL", ErrInvalidValue, s)
		}
	}
	return s, nil
}

func decodePassword(f PasswordField, raw any) (any, error) {
	s, err := asString(raw)
	if err != nil {
		return nil, err
	}
	if s == "" {
		if f.Required {
			return nil, ErrRequired
		}
		return "", nil
	}
	if f.MinLength > 0 && utf8.RuneCountInString(s) < f.MinLength {
		return nil, fmt.Errorf("%w: shorter than %d characters", ErrInvalidValue, f.MinLength)
	}
	return s, nil
}

func decodeTextarea(f TextareaField, raw any) (any, error) {
	s, err := asString(raw)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s) == "" {
		if f.Required {
			return nil, ErrRequired
		}
		return "", nil
	}
	if f.MaxLength > 0 && utf8.RuneCountInString(s) > f.MaxLength {
		return nil, fmt.Errorf("%w: longer than %d characters", ErrInvalidValue, f.MaxLength)
	}
	return s, nil
}

func decodeSelect(f SelectField, raw any) (any, error) {
	s, err := asString(raw)
	if err != nil {
		return nil, err
	}
	if s == "" {
		if f.Required {
			return nil, ErrRequired
		}
		return "", nil
	}
	if o, ok := findOption(f.Options, s); !ok || o.Disabled {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOption, s)
	}
	return s, nil
}

func decodeMultiSelect(f MultiSelectField, raw any) (any, error) {
	var values []string
	switch v := raw.(type) {
	case nil:
	case []string:
		values = v
	case string:
		if v != "" {
			values = strings.Split(v, ",")
		}
	default:
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidValue, raw)
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		if o, ok := findOption(f.Options, v); !ok || o.Disabled {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOption, v)
		}
		out = append(out, v)
	}
	if len(out) == 0 && f.Required {
		return nil, ErrRequired
	}
	if f.MaxCount > 0 && len(out) > f.MaxCount {
		return nil, fmt.Errorf("%w: more than %d selected", ErrInvalidValue, f.MaxCount)
	}
	return out, nil
}

// decodeBool treats a required checkbox as one that must be ticked.
func decodeBool(b Base, raw any) (any, error) {
	var on bool
	switch v := raw.(type) {
	case nil:
	case bool:
		on = v
	case string:
		if v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
			}
			on = parsed
		}
	default:
		return nil, fmt.Errorf("%w: expected a boolean, got %T", ErrInvalidValue, raw)
	}
	if b.Required && !on {
		return nil, ErrRequired
	}
	return on, nil
}

func decodeSlider(f SliderField, raw any) (any, error) {
	var n float64
	switch v := raw.(type) {
	case nil:
		return f.Min, nil
	case float64:
		n = v
	case int:
		n = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("%w: expected a number, got %T", ErrInvalidValue, raw)
	}
	if math.IsNaN(n) || n < f.Min || n > f.Max {
		return nil, fmt.Errorf("%w: %v outside [%v, %v]", ErrInvalidValue, n, f.Min, f.Max)
	}
	if f.Step > 0 {
		steps := (n - f.Min) / f.Step
		if math.Abs(steps-math.Round(steps)) > 1e-9 {
			return nil, fmt.Errorf("%w: %v is not a multiple of %v", ErrInvalidValue, n, f.Step)
		}
	}
	return n, nil
}

func decodeDate(f DateField, raw any) (any, error) {
	var d time.Time
	switch v := raw.(type) {
	case nil:
	case time.Time:
		d = v
	case string:
		if strings.TrimSpace(v) != "" {
			parsed, err := time.Parse(f.layout(), strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a date", ErrInvalidValue, v)
			}
			d = parsed
		}
	default:
		return nil, fmt.Errorf("%w: expected a date, got %T", ErrInvalidValue, raw)
	}
	if d.IsZero() {
		if f.Required {
			return nil, ErrRequired
		}
		return d, nil
	}
	if !f.Min.IsZero() && d.Before(f.Min) {
		return nil, fmt.Errorf("%w: before %s", ErrInvalidValue, f.Min.Format(f.layout()))
	}
	if !f.Max.IsZero() && d.After(f.Max) {
		return nil, fmt.Errorf("%w: after %s", ErrInvalidValue, f.Max.Format(f.layout()))
	}
	return d, nil
}
