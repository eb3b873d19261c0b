// Package forms describes form fields as a closed set of kinds and decodes
// raw submissions into typed values.
package forms

import "time"

// Kind names a field kind.
type Kind string

const (
	KindText        Kind = "text"
	KindPassword    Kind = "password"
	KindTextarea    Kind = "textarea"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multi-select"
	KindCheckbox    Kind = "checkbox"
	KindSwitch      Kind = "switch"
	KindSlider      Kind = "slider"
	KindDate        Kind = "date"
)

// DefaultDateLayout is used by date fields without a layout.
const DefaultDateLayout = time.DateOnly

// Base holds what every field has.
type Base struct {
	Name        string
	Label       string
	Description string
	Required    bool
	Disabled    bool
	Hidden      bool
}

// Field is implemented only by the field types of this package.
type Field interface {
	Kind() Kind
	base() Base
}

func (b Base) base() Base { return b }

// FieldName returns the name of f.
func FieldName(f Field) string { return f.base().Name }

// FieldLabel returns the label of f, falling back to its name.
func FieldLabel(f Field) string {
	if b := f.base(); b.Label != "" {
		return b.Label
	}
	return f.base().Name
}

// InputType refines a text field.
type InputType string

const (
	InputText   InputType = "text"
	InputEmail  InputType = "email"
	InputURL    InputType = "url"
	InputSearch InputType = "search"
	InputTel    InputType = "tel"
)

// SelectOption is one choice of a select or multi-select field.
type SelectOption struct {
	Value    string
	Label    string
	Disabled bool
}

type TextField struct {
	Base
	InputType   InputType
	Placeholder string
	MaxLength   int
}

type PasswordField struct {
	Base
	Placeholder string
	MinLength   int
}

type TextareaField struct {
	Base
	Rows        int
	Placeholder string
	MaxLength   int
}

type SelectField struct {
	Base
	Options     []SelectOption
	Placeholder string
}

type MultiSelectField struct {
	Base
	Options     []SelectOption
	Placeholder string
	MaxCount    int
}

type CheckboxField struct {
	Base
}

type SwitchField struct {
	Base
}

// SliderField accepts numbers in [Min, Max]. A positive Step requires the
// value to sit on a step from Min.
type SliderField struct {
	Base
	Min  float64
	Max  float64
	Step float64
}

// DateField accepts a date in Layout. Zero Min or Max means unbounded.
type DateField struct {
	Base
	Layout string
	Min    time.Time
	Max    time.Time
}

func (TextField) Kind() Kind        { return KindText }
func (PasswordField) Kind() Kind    { return KindPassword }
func (TextareaField) Kind() Kind    { return KindTextarea }
func (SelectField) Kind() Kind      { return KindSelect }
func (MultiSelectField) Kind() Kind { return KindMultiSelect }
func (CheckboxField) Kind() Kind    { return KindCheckbox }
func (SwitchField) Kind() Kind      { return KindSwitch }
func (SliderField) Kind() Kind      { return KindSlider }
func (DateField) Kind() Kind        { return KindDate }

func (f DateField) layout() string {
	if f.Layout == "" {
		return DefaultDateLayout
	}
	return f.Layout
}

func findOption(options []SelectOption, value string) (SelectOption, bool) {
	for _, o := range options {
		if o.Value == value {
			return o, true
		}
	}
	return SelectOption{}, false
}
