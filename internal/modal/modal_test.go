package modal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnlyOneDialogIsOpen(t *testing.T) {
	m := NewManager()

	m.Open(NameUser, ActionCreate, nil)
	m.Open(NameAdmin, ActionUpdate, &Payload{ID: "u-1", Item: "root"})

	assert.False(t, m.For(NameUser).IsOpen)
	admin := m.For(NameAdmin)
	require.True(t, admin.IsOpen)
	assert.Equal(t, ActionUpdate, admin.Action)
	assert.Equal(t, "root", admin.Payload.Item)

	cur := m.Current()
	require.NotNil(t, cur)
	assert.Equal(t, NameAdmin, cur.Name)
}

func TestClose(t *testing.T) {
	calls := 0
	m := NewManager()
	m.Subscribe(func(State) { calls++ })

	m.Close()
	assert.Equal(t, 0, calls)

	m.Open(NamePost, ActionDelete, nil)
	m.Close()

	assert.Equal(t, 2, calls)
	assert.Nil(t, m.Current())
	assert.Equal(t, View{}, m.For(NamePost))
}

func TestSetMode(t *testing.T) {
	var states []State
	m := NewManager()
	m.Subscribe(func(s State) { states = append(states, s) })

	assert.Equal(t, ModeDialog, m.Mode())
	m.SetMode(ModeSheet)
	m.SetMode(ModeSheet)

	require.Len(t, states, 1)
	assert.Equal(t, ModeSheet, states[0].Mode)
	assert.Equal(t, ModeSheet, NewManager(WithMode(ModeSheet)).Mode())
}

func TestActionValid(t *testing.T) {
	for _, a := range []Action{ActionCreate, ActionUpdate, ActionDuplicate, ActionDelete} {
		assert.True(t, a.Valid(), a)
	}
	assert.False(t, Action("archive").Valid())
}

func TestConfirmLifecycle(t *testing.T) {
	m := NewManager()

	id := m.Confirm(ConfirmConfig{Title: "Delete 2 users?"})
	state := m.ConfirmState()
	require.True(t, state.IsOpen)
	assert.Equal(t, id, state.RequestID)
	assert.Equal(t, VariantDefault, state.Config.Variant)

	m.SetLoading(true)
	assert.True(t, m.ConfirmState().Config.Loading)

	m.CloseConfirm()
	assert.Equal(t, ConfirmState{}, m.ConfirmState())
}

func TestSetLoadingWithoutConfigIsNoop(t *testing.T) {
	calls := 0
	m := NewManager()
	m.Subscribe(func(State) { calls++ })

	m.SetLoading(true)

	assert.Equal(t, 0, calls)
	assert.Nil(t, m.ConfirmState().Config)
}

func TestConfirmRequestIDsDiffer(t *testing.T) {
	m := NewManager()
	first := m.Confirm(ConfirmConfig{})
	second := m.Confirm(ConfirmConfig{})
	assert.NotEqual(t, first, second)
}

func TestConfirmStateIsACopy(t *testing.T) {
	m := NewManager()
	m.Confirm(ConfirmConfig{Title: "a"})

	state := m.ConfirmState()
	state.Config.Title = "b"

	assert.Equal(t, "a", m.ConfirmState().Config.Title)
}

func TestAccept(t *testing.T) {
	var loadingDuringHandler bool
	m := NewManager()
	m.Confirm(ConfirmConfig{
		Variant: VariantDestructive,
		OnConfirm: func() error {
			loadingDuringHandler = m.ConfirmState().Config.Loading
			return nil
		},
	})

	require.NoError(t, m.Accept())
	assert.True(t, loadingDuringHandler)
	assert.False(t, m.ConfirmState().IsOpen)
}

func TestAcceptFailureKeepsPromptOpen(t *testing.T) {
	m := NewManager()
	m.Confirm(ConfirmConfig{OnConfirm: func() error { return errors.New("boom") }})

	err := m.Accept()

	require.EqualError(t, err, "boom")
	state := m.ConfirmState()
	assert.True(t, state.IsOpen)
	assert.False(t, state.Config.Loading)
}

func TestAcceptWithoutPromptIsNoop(t *testing.T) {
	assert.NoError(t, NewManager().Accept())
}

func TestCancel(t *testing.T) {
	cancelled := false
	m := NewManager()
	m.Confirm(ConfirmConfig{OnCancel: func() { cancelled = true }})

	m.Cancel()

	assert.True(t, cancelled)
	assert.False(t, m.ConfirmState().IsOpen)
}

func TestUnsubscribe(t *testing.T) {
	calls := 0
	m := NewManager()
	unsubscribe := m.Subscribe(func(State) { calls++ })

	m.Open(NameUser, ActionCreate, nil)
	unsubscribe()
	m.Close()

	assert.Equal(t, 1, calls)
}
