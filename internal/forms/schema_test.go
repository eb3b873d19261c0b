package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userSchema(t *testing.T) Schema {
	t.Helper()
	s, err := NewSchema(
		TextField{Base: Base{Name: "name", Required: true}},
		TextField{Base: Base{Name: "email", Required: true}, InputType: InputEmail},
		SelectField{Base: Base{Name: "role", Required: true}, Options: roleOptions},
		SwitchField{Base: Base{Name: "active"}},
		TextField{Base: Base{Name: "id", Disabled: true}},
	)
	require.NoError(t, err)
	return s
}

func TestDecodeAll(t *testing.T) {
	s := userSchema(t)

	got, err := s.DecodeAll(map[string]any{
		"name":   "Ann",
		"email":  "ann@example.com",
		"role":   "ADMIN",
		"active": "true",
		"id":     "forged",
		"extra":  "ignored",
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "Ann",
		"email":  "ann@example.com",
		"role":   "ADMIN",
		"active": true,
		"id":     "",
	}, got)
}

func TestDecodeAllReportsEveryField(t *testing.T) {
	s := userSchema(t)

	_, err := s.DecodeAll(map[string]any{"email": "nope", "role": "ROOT"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)
	assert.ErrorIs(t, verr.ErrorFor("name"), ErrRequired)
	assert.ErrorIs(t, verr.ErrorFor("email"), ErrInvalidValue)
	assert.ErrorIs(t, verr.ErrorFor("role"), ErrUnknownOption)
	assert.Nil(t, verr.ErrorFor("active"))

	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Contains(t, err.Error(), "name: required")
}

func TestNewSchemaRejectsBadNames(t *testing.T) {
	_, err := NewSchema(TextField{Base: Base{Name: "a"}}, SwitchField{Base: Base{Name: "a"}})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = NewSchema(TextField{})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSchemaLookups(t *testing.T) {
	s := userSchema(t)

	f, ok := s.Field("role")
	require.True(t, ok)
	assert.Equal(t, KindSelect, f.Kind())

	_, ok = s.Field("missing")
	assert.False(t, ok)

	assert.Equal(t, false, s.Defaults()["active"])
}
