// Package modal tracks which dialog of an application is open and the
// state of its confirmation prompt. A Manager is created by the
// application and passed to the screens that need it.
package modal

import (
	"sort"

	"github.com/google/uuid"

	"tablestate/internal/logging"
)

// Mode selects how dialogs are presented.
type Mode string

const (
	ModeDialog Mode = "DIALOG"
	ModeSheet  Mode = "SHEET"
)

// Name identifies a dialog.
type Name string

const (
	NameUser  Name = "user"
	NameAdmin Name = "admin"
	NamePost  Name = "post"
)

// Action is what the open dialog is doing to its payload.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDuplicate Action = "duplicate"
	ActionDelete    Action = "delete"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDuplicate, ActionDelete:
		return true
	}
	return false
}

// Payload is the data a dialog was opened with.
type Payload struct {
	ID   string
	Item any
}

// Dialog is the open dialog.
type Dialog struct {
	Name    Name
	Action  Action
	Payload *Payload
}

// View is what a single dialog sees of the manager.
type View struct {
	IsOpen  bool
	Action  Action
	Payload *Payload
}

// Variant styles the confirm button.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// ConfirmConfig describes a confirmation prompt.
type ConfirmConfig struct {
	Title        string
	Description  string
	ConfirmLabel string
	CancelLabel  string
	Variant      Variant
	Loading      bool
	OnConfirm    func() error
	OnCancel     func()
}

// ConfirmState is the prompt as seen by the screen. RequestID changes every
// time a prompt is opened so late results of an earlier prompt can be told
// apart.
type ConfirmState struct {
	IsOpen    bool
	RequestID string
	Config    *ConfirmConfig
}

// State is a snapshot passed to listeners.
type State struct {
	Mode    Mode
	Dialog  *Dialog
	Confirm ConfirmState
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithMode sets the initial presentation mode.
func WithMode(mode Mode) Option {
	return func(m *Manager) {
		m.mode = mode
	}
}

// Manager holds the open dialog and confirm prompt. At most one dialog is
// open. Not safe for concurrent use.
type Manager struct {
	mode    Mode
	dialog  *Dialog
	confirm ConfirmState
	logger  logging.Logger

	listeners    map[int]func(State)
	nextListener int
}

// NewManager creates a manager with no open dialog.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		mode:      ModeDialog,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.OrDefault(m.logger)
	return m
}

// Open shows dialog name, replacing any open dialog.
func (m *Manager) Open(name Name, action Action, payload *Payload) {
	m.dialog = &Dialog{Name: name, Action: action, Payload: payload}
	m.logger.Debug("dialog opened", "name", name, "action", action)
	m.notify()
}

// Close hides the open dialog.
func (m *Manager) Close() {
	if m.dialog == nil {
		return
	}
	m.logger.Debug("dialog closed", "name", m.dialog.Name)
	m.dialog = nil
	m.notify()
}

// Current returns the open dialog, or nil.
func (m *Manager) Current() *Dialog {
	if m.dialog == nil {
		return nil
	}
	d := *m.dialog
	return &d
}

// For returns the view of dialog name. It is closed unless name is the
// open dialog.
func (m *Manager) For(name Name) View {
	if m.dialog == nil || m.dialog.Name != name {
		return View{}
	}
	return View{IsOpen: true, Action: m.dialog.Action, Payload: m.dialog.Payload}
}

// Mode returns the presentation mode.
func (m *Manager) Mode() Mode {
	return m.mode
}

// SetMode changes the presentation mode.
func (m *Manager) SetMode(mode Mode) {
	if mode == m.mode {
		return
	}
	m.mode = mode
	m.notify()
}

// Confirm opens a confirmation prompt and returns its request id.
func (m *Manager) Confirm(cfg ConfirmConfig) string {
	if cfg.Variant == "" {
		cfg.Variant = VariantDefault
	}
	m.confirm = ConfirmState{
		IsOpen:    true,
		RequestID: uuid.NewString(),
		Config:    &cfg,
	}
	m.notify()
	return m.confirm.RequestID
}

// CloseConfirm hides the prompt and drops its config.
func (m *Manager) CloseConfirm() {
	if !m.confirm.IsOpen && m.confirm.Config == nil {
		return
	}
	m.confirm = ConfirmState{}
	m.notify()
}

// SetLoading flags the prompt as busy. Without a prompt it does nothing.
func (m *Manager) SetLoading(loading bool) {
	if m.confirm.Config == nil {
		return
	}
	cfg := *m.confirm.Config
	cfg.Loading = loading
	m.confirm.Config = &cfg
	m.notify()
}

// ConfirmState returns the prompt state.
func (m *Manager) ConfirmState() ConfirmState {
	out := m.confirm
	if out.Config != nil {
		cfg := *out.Config
		out.Config = &cfg
	}
	return out
}

// Accept runs the prompt's confirm handler while the prompt is loading and
// closes it when the handler succeeds. On failure the prompt stays open.
func (m *Manager) Accept() error {
	if m.confirm.Config == nil {
		return nil
	}
	onConfirm := m.confirm.Config.OnConfirm
	if onConfirm == nil {
		m.CloseConfirm()
		return nil
	}
	requestID := m.confirm.RequestID
	m.SetLoading(true)
	err := onConfirm()
	if m.confirm.RequestID != requestID {
		return err
	}
	if err != nil {
		m.logger.Warn("confirm handler failed", "error", err)
		m.SetLoading(false)
		return err
	}
	m.CloseConfirm()
	return nil
}

// Cancel runs the prompt's cancel handler and closes it.
func (m *Manager) Cancel() {
	if m.confirm.Config == nil {
		return
	}
	if onCancel := m.confirm.Config.OnCancel; onCancel != nil {
		onCancel()
	}
	m.CloseConfirm()
}

// Snapshot returns the full state.
func (m *Manager) Snapshot() State {
	return State{Mode: m.mode, Dialog: m.Current(), Confirm: m.ConfirmState()}
}

// Subscribe registers fn for state changes and returns its remover.
func (m *Manager) Subscribe(fn func(State)) func() {
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn
	return func() {
		delete(m.listeners, id)
	}
}

func (m *Manager) notify() {
	if len(m.listeners) == 0 {
		return
	}
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	state := m.Snapshot()
	for _, id := range ids {
		if fn, ok := m.listeners[id]; ok {
			fn(state)
		}
	}
}
