package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userFilters() []Config {
	return []Config{
		{
			Key:   "status",
			Label: "Status",
			Choices: []Choice{
				{Label: "Active", Value: "ACTIVE"},
				{Label: "Inactive", Value: "INACTIVE"},
			},
		},
		{
			Key:         "role",
			Label:       "Role",
			Placeholder: "Any role",
			Choices: []Choice{
				{Label: "Admin", Value: "ADMIN"},
				{Label: "User", Value: "USER"},
			},
		},
	}
}

func TestSetFilterNotifiesFullMapping(t *testing.T) {
	var got []Values
	c := NewComposer(userFilters(), nil, WithFilterChange(func(v Values) {
		got = append(got, v)
	}))

	c.SetFilter("status", []string{"ACTIVE"})

	require.Len(t, got, 1)
	assert.Equal(t, Values{"status": {"ACTIVE"}, "role": {}}, got[0])
	assert.True(t, c.HasActiveFilters())
	assert.Equal(t, 1, c.ActiveFilterCount())
}

func TestClearFilterKeepsOtherKeys(t *testing.T) {
	c := NewComposer(userFilters(), Values{"status": {"ACTIVE"}, "role": {"ADMIN"}})

	c.ClearFilter("status")

	assert.Equal(t, Values{"status": {}, "role": {"ADMIN"}}, c.Values())
	assert.Equal(t, 1, c.ActiveFilterCount())
}

func TestClearAllFiltersNotifiesOnce(t *testing.T) {
	calls := 0
	var last Values
	c := NewComposer(userFilters(), Values{"status": {"ACTIVE"}, "role": {"ADMIN", "USER"}},
		WithFilterChange(func(v Values) {
			calls++
			last = v
		}))

	c.ClearAllFilters()

	assert.Equal(t, 1, calls)
	assert.Equal(t, Values{"status": {}, "role": {}}, last)
	assert.False(t, c.HasActiveFilters())
}

func TestInitialValuesForUnknownKeysAreIgnored(t *testing.T) {
	c := NewComposer(userFilters(), Values{"team": {"core"}})

	assert.Equal(t, []string{"status", "role"}, c.Keys())
	assert.Empty(t, c.Get("team"))
}

func TestSetFilterAddsUnknownKey(t *testing.T) {
	c := NewComposer(userFilters(), nil)

	c.SetFilter("team", []string{"core"})

	assert.Equal(t, []string{"status", "role", "team"}, c.Keys())
	assert.Equal(t, []string{"core"}, c.Get("team"))
}

func TestValuesIsACopy(t *testing.T) {
	c := NewComposer(userFilters(), Values{"status": {"ACTIVE"}})

	v := c.Values()
	v["status"][0] = "INACTIVE"
	v["role"] = append(v["role"], "ADMIN")

	assert.Equal(t, []string{"ACTIVE"}, c.Get("status"))
	assert.Empty(t, c.Get("role"))
}

func TestCallerSliceIsNotRetained(t *testing.T) {
	c := NewComposer(userFilters(), nil)
	in := []string{"ADMIN"}

	c.SetFilter("role", in)
	in[0] = "USER"

	assert.Equal(t, []string{"ADMIN"}, c.Get("role"))
}

func TestCycle(t *testing.T) {
	c := NewComposer(userFilters(), nil)

	steps := [][]string{{"ACTIVE"}, {"INACTIVE"}, {}, {"ACTIVE"}}
	for _, want := range steps {
		c.Cycle("status")
		assert.Equal(t, want, c.Get("status"))
	}

	c.SetFilter("status", []string{"ACTIVE", "INACTIVE"})
	c.Cycle("status")
	assert.Equal(t, []string{"ACTIVE"}, c.Get("status"))

	c.Cycle("missing")
	assert.Empty(t, c.Get("missing"))
}

func TestConfigHelpers(t *testing.T) {
	c := NewComposer(userFilters(), nil)

	status, ok := c.Config("status")
	require.True(t, ok)
	assert.Equal(t, "Select status", status.PlaceholderText())
	assert.Equal(t, "Inactive", status.ChoiceLabel("INACTIVE"))
	assert.Equal(t, "PENDING", status.ChoiceLabel("PENDING"))

	role, ok := c.Config("role")
	require.True(t, ok)
	assert.Equal(t, "Any role", role.PlaceholderText())

	_, ok = c.Config("missing")
	assert.False(t, ok)
}
