package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorder() (*[]string, SearchFunc) {
	var got []string
	return &got, func(v string) { got = append(got, v) }
}

func TestLastChangeWins(t *testing.T) {
	got, fn := recorder()
	d := NewDebouncer(0, fn)

	t1 := d.Change("a")
	t2 := d.Change("ad")
	t3 := d.Change("ada")

	assert.False(t, d.Elapsed(t1))
	assert.False(t, d.Elapsed(t2))
	assert.True(t, d.Elapsed(t3))
	assert.Equal(t, []string{"ada"}, *got)
	assert.Equal(t, "ada", d.Submitted())
}

func TestElapsedFiresOnce(t *testing.T) {
	got, fn := recorder()
	d := NewDebouncer(0, fn)

	ticket := d.Change("bob")
	require.True(t, d.Elapsed(ticket))
	assert.False(t, d.Elapsed(ticket))
	assert.Len(t, *got, 1)
}

func TestSubmitBypassesDelay(t *testing.T) {
	got, fn := recorder()
	d := NewDebouncer(0, fn)

	ticket := d.Change("car")
	d.Submit("carol")

	assert.Equal(t, []string{"carol"}, *got)
	assert.False(t, d.Elapsed(ticket))
	_, pending := d.Pending()
	assert.False(t, pending)
}

func TestEmptyValueStillSearches(t *testing.T) {
	got, fn := recorder()
	d := NewDebouncer(0, fn)

	d.Submit("x")
	ticket := d.Change("")
	require.True(t, d.Elapsed(ticket))

	assert.Equal(t, []string{"x", ""}, *got)
}

func TestDelayDefaults(t *testing.T) {
	assert.Equal(t, DefaultDelay, NewDebouncer(-1, nil).Delay())
	assert.Equal(t, 2*DefaultDelay, NewDebouncer(2*DefaultDelay, nil).Delay())
}

func TestScheduleReturnsCommand(t *testing.T) {
	d := NewDebouncer(0, nil)
	assert.NotNil(t, d.Schedule(d.Change("q")))
}
