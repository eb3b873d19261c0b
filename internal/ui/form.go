package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tablestate/internal/forms"
	"tablestate/internal/modal"
	"tablestate/internal/ui/views"
)

// formInput is the editor of one form field.
type formInput struct {
	field  forms.Field
	text   textinput.Model
	choice int
	on     bool
}

func newFormInput(f forms.Field, initial any) formInput {
	in := formInput{field: f}
	switch f := f.(type) {
	case forms.SelectField:
		in.choice = -1
		if v, ok := initial.(string); ok {
			for i, o := range f.Options {
				if o.Value == v {
					in.choice = i
				}
			}
		}
	case forms.SwitchField, forms.CheckboxField:
		in.on, _ = initial.(bool)
	default:
		in.text = textinput.New()
		in.text.Prompt = ""
		if f.Kind() == forms.KindPassword {
			in.text.EchoMode = textinput.EchoPassword
		}
		if v, ok := initial.(string); ok {
			in.text.SetValue(v)
		}
	}
	return in
}

func (in *formInput) value() any {
	switch f := in.field.(type) {
	case forms.SelectField:
		if in.choice < 0 || in.choice >= len(f.Options) {
			return ""
		}
		return f.Options[in.choice].Value
	case forms.SwitchField, forms.CheckboxField:
		return in.on
	default:
		return in.text.Value()
	}
}

func (in *formInput) isText() bool {
	switch in.field.(type) {
	case forms.SelectField, forms.SwitchField, forms.CheckboxField:
		return false
	}
	return true
}

func (in *formInput) render() string {
	switch f := in.field.(type) {
	case forms.SelectField:
		label := "(none)"
		if in.choice >= 0 && in.choice < len(f.Options) {
			label = f.Options[in.choice].Label
		}
		return "< " + label + " >"
	case forms.SwitchField, forms.CheckboxField:
		if in.on {
			return "[on]"
		}
		return "[off]"
	default:
		return in.text.View()
	}
}

// userForm is the create, update and duplicate dialog.
type userForm struct {
	action modal.Action
	id     string
	inputs []formInput
	focus  int
	errs   map[string]string
}

func newUserForm(schema forms.Schema, action modal.Action, id string, initial map[string]any) *userForm {
	f := &userForm{action: action, id: id, errs: map[string]string{}}
	for _, field := range schema.Fields {
		f.inputs = append(f.inputs, newFormInput(field, initial[forms.FieldName(field)]))
	}
	f.setFocus(0)
	return f
}

func (f *userForm) values() map[string]any {
	out := make(map[string]any, len(f.inputs))
	for i := range f.inputs {
		out[forms.FieldName(f.inputs[i].field)] = f.inputs[i].value()
	}
	return out
}

func (f *userForm) setFocus(i int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	var cmd tea.Cmd
	for j := range f.inputs {
		if !f.inputs[j].isText() {
			continue
		}
		if j == f.focus {
			cmd = f.inputs[j].text.Focus()
		} else {
			f.inputs[j].text.Blur()
		}
	}
	return cmd
}

// setErrors maps a decode failure onto the fields.
func (f *userForm) setErrors(err error) {
	f.errs = map[string]string{}
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		for _, fe := range verr.Fields {
			f.errs[fe.Field] = fe.Err.Error()
		}
		return
	}
	f.errs[""] = err.Error()
}

// formResult says what a key did to the form.
type formResult int

const (
	formEditing formResult = iota
	formSubmit
	formCancel
)

func (f *userForm) update(msg tea.KeyMsg) (formResult, tea.Cmd) {
	in := &f.inputs[f.focus]
	switch msg.String() {
	case "esc":
		return formCancel, nil
	case "enter":
		return formSubmit, nil
	case "tab", "down":
		return formEditing, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return formEditing, f.setFocus(f.focus - 1)
	}

	switch field := in.field.(type) {
	case forms.SelectField:
		n := len(field.Options)
		switch msg.String() {
		case "left", "h":
			in.choice = (in.choice - 1 + n) % n
		case "right", "l", " ":
			in.choice = (in.choice + 1) % n
		}
		return formEditing, nil
	case forms.SwitchField, forms.CheckboxField:
		if msg.String() == " " || msg.String() == "left" || msg.String() == "right" {
			in.on = !in.on
		}
		return formEditing, nil
	}

	var cmd tea.Cmd
	in.text, cmd = in.text.Update(msg)
	return formEditing, cmd
}

func (f *userForm) view(s *views.Styles) string {
	var b strings.Builder
	title := map[modal.Action]string{
		modal.ActionCreate:    "New user",
		modal.ActionUpdate:    "Edit user",
		modal.ActionDuplicate: "Duplicate user",
	}[f.action]
	b.WriteString(s.Title.Render(title))
	b.WriteString("\n")
	for i := range f.inputs {
		in := &f.inputs[i]
		label := s.FormLabel.Render(forms.FieldLabel(in.field))
		value := in.render()
		if i == f.focus {
			label = s.FormFocused.Render(fmt.Sprintf("%-10s", forms.FieldLabel(in.field)))
		}
		b.WriteString(label + " " + value)
		if msg, ok := f.errs[forms.FieldName(in.field)]; ok {
			b.WriteString("  " + s.StatusError.Render(msg))
		}
		b.WriteString("\n")
	}
	if msg, ok := f.errs[""]; ok {
		b.WriteString(s.StatusError.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString(s.Help.Render("tab next • ←/→ change • enter save • esc cancel"))
	return b.String()
}
