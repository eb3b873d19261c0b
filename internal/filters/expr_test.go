package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpression(t *testing.T) {
	tests := []struct {
		name    string
		initial Values
		want    string
	}{
		{name: "none active", want: ""},
		{
			name:    "single key",
			initial: Values{"status": {"ACTIVE"}},
			want:    `status in ["ACTIVE"]`,
		},
		{
			name:    "declaration order",
			initial: Values{"role": {"ADMIN", "USER"}, "status": {"ACTIVE"}},
			want:    `status in ["ACTIVE"] && role in ["ADMIN", "USER"]`,
		},
		{
			name:    "quotes are escaped",
			initial: Values{"status": {`A"B`}},
			want:    `status in ["A\"B"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComposer(userFilters(), tt.initial)
			assert.Equal(t, tt.want, c.Expression())
		})
	}
}

func TestExpressionUsesEnvForOddKeys(t *testing.T) {
	c := NewComposer(nil, nil)
	c.SetFilter("created-by", []string{"ops"})
	c.SetFilter("in", []string{"x"})

	assert.Equal(t, `$env["created-by"] in ["ops"] && $env["in"] in ["x"]`, c.Expression())

	program, err := c.Compile()
	require.NoError(t, err)
	ok, err := Match(program, map[string]any{"created-by": "ops", "in": "x"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompileAndMatch(t *testing.T) {
	c := NewComposer(userFilters(), Values{"status": {"ACTIVE"}, "role": {"ADMIN"}})

	program, err := c.Compile()
	require.NoError(t, err)
	require.NotNil(t, program)

	rows := []struct {
		env  map[string]any
		want bool
	}{
		{map[string]any{"status": "ACTIVE", "role": "ADMIN"}, true},
		{map[string]any{"status": "ACTIVE", "role": "USER"}, false},
		{map[string]any{"status": "INACTIVE", "role": "ADMIN"}, false},
		{map[string]any{"status": "ACTIVE"}, false},
	}
	for _, r := range rows {
		got, err := Match(program, r.env)
		require.NoError(t, err)
		assert.Equal(t, r.want, got, "env %v", r.env)
	}
}

func TestCompileCachesUntilValuesChange(t *testing.T) {
	c := NewComposer(userFilters(), Values{"status": {"ACTIVE"}})

	first, err := c.Compile()
	require.NoError(t, err)
	again, err := c.Compile()
	require.NoError(t, err)
	assert.Same(t, first, again)

	c.SetFilter("status", []string{"INACTIVE"})
	changed, err := c.Compile()
	require.NoError(t, err)
	assert.NotSame(t, first, changed)
}

func TestNilProgramMatchesEverything(t *testing.T) {
	c := NewComposer(userFilters(), nil)

	program, err := c.Compile()
	require.NoError(t, err)
	assert.Nil(t, program)

	ok, err := Match(program, map[string]any{"status": "INACTIVE"})
	require.NoError(t, err)
	assert.True(t, ok)
}

type member struct {
	Name   string
	Status string
}

func TestPredicate(t *testing.T) {
	env := func(m member) map[string]any {
		return map[string]any{"status": m.Status}
	}
	c := NewComposer(userFilters(), nil)

	pred, err := Predicate(c, env)
	require.NoError(t, err)
	assert.Nil(t, pred)

	c.SetFilter("status", []string{"INACTIVE"})
	pred, err = Predicate(c, env)
	require.NoError(t, err)
	require.NotNil(t, pred)

	assert.True(t, pred(member{Name: "ann", Status: "INACTIVE"}))
	assert.False(t, pred(member{Name: "bob", Status: "ACTIVE"}))
}
