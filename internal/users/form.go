package users

import (
	"fmt"

	"tablestate/internal/forms"
)

// Form field names of the user dialog.
const (
	FieldName   = "name"
	FieldEmail  = "email"
	FieldRole   = "role"
	FieldActive = "active"
)

// FormSchema is the create and update dialog of a user.
func FormSchema() forms.Schema {
	s, err := forms.NewSchema(
		forms.TextField{Base: forms.Base{Name: FieldName, Label: "Name", Required: true}, MaxLength: 80},
		forms.TextField{Base: forms.Base{Name: FieldEmail, Label: "Email", Required: true}, InputType: forms.InputEmail},
		forms.SelectField{
			Base: forms.Base{Name: FieldRole, Label: "Role", Required: true},
			Options: []forms.SelectOption{
				{Value: string(RoleAdmin), Label: "Admin"},
				{Value: string(RoleUser), Label: "User"},
			},
		},
		forms.SwitchField{Base: forms.Base{Name: FieldActive, Label: "Active"}},
	)
	if err != nil {
		panic(fmt.Sprintf("users form schema: %v", err))
	}
	return s
}

// FromForm decodes a dialog submission into a user without id.
func FromForm(raw map[string]any) (User, error) {
	values, err := FormSchema().DecodeAll(raw)
	if err != nil {
		return User{}, err
	}
	u := User{
		Name:   values[FieldName].(string),
		Email:  values[FieldEmail].(string),
		Role:   Role(values[FieldRole].(string)),
		Status: StatusInactive,
	}
	if values[FieldActive].(bool) {
		u.Status = StatusActive
	}
	return u, nil
}

// FormValues is the inverse of FromForm, used to prefill a dialog.
func FormValues(u User) map[string]any {
	return map[string]any{
		FieldName:   u.Name,
		FieldEmail:  u.Email,
		FieldRole:   string(u.Role),
		FieldActive: u.Status == StatusActive,
	}
}
