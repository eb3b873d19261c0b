package ui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tablestate/internal/columns"
	"tablestate/internal/eventbus"
	"tablestate/internal/filters"
	"tablestate/internal/grid"
	"tablestate/internal/logging"
	"tablestate/internal/modal"
	"tablestate/internal/querystate"
	"tablestate/internal/search"
	"tablestate/internal/selection"
	"tablestate/internal/storage"
	"tablestate/internal/ui/views"
	"tablestate/internal/users"
)

// UsersTableID is the column layout key of the users screen.
const UsersTableID = "users"

// inputMode is what the keyboard is currently driving.
type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeColumns
	modeConfirm
	modeForm
)

// chromeHeight is the number of lines around the table.
const chromeHeight = 9

// Options configures the users screen.
type Options struct {
	Store   users.Store
	Storage storage.Storage
	Bus     eventbus.EventBus
	Logger  logging.Logger
	// Initial is the screen state to start from, typically parsed from a
	// query string.
	Initial  querystate.State
	Debounce time.Duration
}

// Model represents the UI state of the users screen
type Model struct {
	ctx    context.Context
	store  users.Store
	bus    eventbus.EventBus
	logger logging.Logger

	// Table state
	grid     *grid.Model[users.User]
	tracker  *selection.Tracker[users.User]
	filters  *filters.Composer
	columns  *columns.Store
	debounce *search.Debouncer
	modals   *modal.Manager
	state    querystate.State

	// Widgets
	table  table.Model
	search textinput.Model
	help   help.Model
	keys   keyMap
	styles *views.Styles
	popup  *views.PopupRenderer
	form   *userForm

	width        int
	height       int
	mode         inputMode
	columnCursor int
	titles       map[string]string
	widths       map[string]int

	seq           int  // id of the newest page request
	loading       bool // a page request is in flight
	dirty         bool // state changed, reload at the end of Update
	status        string
	statusErr     bool
	pendingDelete []string
	announced     string // request id of the last announced confirm prompt
	stopModals    func()

	helpOps *HelpOps
	program *tea.Program
}

// NewModel creates the users screen. Call Init through bubbletea to load
// the first page.
func NewModel(ctx context.Context, opts Options) *Model {
	logger := logging.OrDefault(opts.Logger)
	bus := opts.Bus
	if bus == nil {
		bus = eventbus.New(logger)
	}
	st := opts.Storage
	if st == nil {
		st = storage.NewMemoryStorage()
	}
	initial := opts.Initial.Clone()
	if initial.PageSize <= 0 {
		initial.PageSize = grid.DefaultPageSize
	}
	if initial.Filters == nil {
		initial.Filters = filters.Values{}
	}

	m := &Model{
		ctx:    ctx,
		store:  opts.Store,
		bus:    bus,
		logger: logger,
		state:  initial,
		help:   help.New(),
		keys:   defaultKeyMap(),
		styles: views.NewStyles(),
		titles: make(map[string]string),
		widths: make(map[string]int),
	}
	m.popup = views.NewPopupRenderer(m.styles)

	gridOpts := []grid.Option[users.User]{
		grid.WithManualPagination[users.User](),
		grid.WithPageSize[users.User](initial.PageSize),
	}
	for col, cmp := range users.Comparators() {
		gridOpts = append(gridOpts, grid.WithComparator(col, cmp))
	}
	m.grid = grid.NewModel(users.RowID, gridOpts...)
	m.grid.SetSort(initial.Sort)
	m.state.Sort = m.grid.Sort()

	m.tracker = selection.NewTracker[users.User](m.grid, users.RowID,
		selection.WithLogger(logger),
		selection.WithSelectionChange(func(ids []string) {
			m.bus.Publish(eventbus.SelectionChangedEvent{TableID: UsersTableID, IDs: ids})
		}),
	)

	m.filters = filters.NewComposer(users.FilterConfigs(), initial.Filters,
		filters.WithLogger(logger),
		filters.WithFilterChange(func(values filters.Values) {
			m.state.Filters = values
			m.state.PageIndex = 0
			m.dirty = true
			m.bus.Publish(eventbus.FiltersChangedEvent{TableID: UsersTableID, Values: values})
		}),
	)
	m.state.Filters = m.filters.Values()

	for _, c := range users.Columns() {
		m.titles[c.ID] = c.Title
		m.widths[c.ID] = c.Width
	}
	m.columns = columns.NewStore(st,
		columns.WithLogger(logger),
		columns.WithLayoutChange(func(tableID string, states []columns.State) {
			m.bus.Publish(eventbus.ColumnsChangedEvent{TableID: tableID, States: states})
		}),
	)
	m.columns.Initialize(UsersTableID, users.ColumnIDs())

	m.debounce = search.NewDebouncer(opts.Debounce, func(value string) {
		if value == m.state.Search {
			return
		}
		m.state.Search = value
		m.state.PageIndex = 0
		m.dirty = true
		m.bus.Publish(eventbus.SearchSubmittedEvent{TableID: UsersTableID, Query: value})
	})

	m.modals = modal.NewManager(modal.WithLogger(logger))
	m.stopModals = m.modals.Subscribe(m.onModalChange)

	m.search = textinput.New()
	m.search.Prompt = "/ "
	m.search.Placeholder = "Search name or email"
	m.search.SetValue(initial.Search)

	m.table = table.New(table.WithFocused(true), table.WithHeight(grid.DefaultPageSize))
	ts := table.DefaultStyles()
	ts.Header = m.styles.Header
	ts.Selected = m.styles.Cursor
	m.table.SetStyles(ts)
	m.syncTable()

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// State returns the current screen state.
func (m *Model) State() querystate.State {
	return m.state.Clone()
}

// SelectedIDs returns the selected user ids in selection order.
func (m *Model) SelectedIDs() []string {
	return m.tracker.SelectedRows()
}

// Init loads the first page.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if m.dirty {
		m.dirty = false
		cmd = tea.Batch(cmd, m.load())
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-chromeHeight, 3))
		return nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.handleSearchKey(msg)
		case modeColumns:
			m.handleColumnsKey(msg)
			return nil
		case modeConfirm:
			return m.handleConfirmKey(msg)
		case modeForm:
			return m.handleFormKey(msg)
		}
		return m.handleKey(msg)

	case search.ElapsedMsg:
		m.debounce.Elapsed(msg.Ticket)
		return nil

	case usersLoadedMsg:
		m.handleLoaded(msg)
		return nil

	case usersDeletedMsg:
		m.handleDeleted(msg)
		return nil

	case userSavedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to save user", "error", msg.err)
			if m.form != nil {
				m.form.setErrors(msg.err)
			}
			return nil
		}
		m.modals.Close()
		m.form = nil
		m.setStatus(fmt.Sprintf("Saved %s", msg.user.Name), false)
		m.dirty = true
		return nil

	case helpPagerMsg:
		if msg.err != nil {
			m.logger.Warn("help pager failed", "error", msg.err)
			m.help.ShowAll = !m.help.ShowAll
		}
		return nil

	case EventMsg:
		if e, ok := msg.Event.(eventbus.ErrorEvent); ok {
			m.setStatus(e.Message, true)
		}
		return nil
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.tracker.Close()
		m.stopModals()
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.table.MoveUp(1)
	case key.Matches(msg, m.keys.Down):
		m.table.MoveDown(1)

	case key.Matches(msg, m.keys.Toggle):
		m.grid.ToggleRowAt(m.table.Cursor())
		m.syncTable()
	case key.Matches(msg, m.keys.SelectAll):
		m.tracker.SelectAll()
		m.syncTable()
	case key.Matches(msg, m.keys.ToggleHeader):
		m.grid.ToggleAllPageRows()
		m.syncTable()
	case key.Matches(msg, m.keys.ClearSel):
		m.tracker.ClearSelection()
		m.syncTable()

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m.search.Focus()
	case key.Matches(msg, m.keys.StatusFilter):
		m.filters.Cycle(users.FilterStatus)
	case key.Matches(msg, m.keys.RoleFilter):
		m.filters.Cycle(users.FilterRole)
	case key.Matches(msg, m.keys.ClearFilters):
		m.filters.ClearAllFilters()
	case key.Matches(msg, m.keys.Sort):
		m.cycleSortColumn()
	case key.Matches(msg, m.keys.SortDir):
		if s := m.grid.Sort(); s.Column != "" {
			m.applySort(grid.SortState{Column: s.Column, Desc: !s.Desc})
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.state.PageIndex > 0 {
			m.state.PageIndex--
			m.dirty = true
		}
	case key.Matches(msg, m.keys.NextPage):
		if m.state.PageIndex < m.grid.PageCount()-1 {
			m.state.PageIndex++
			m.dirty = true
		}
	case key.Matches(msg, m.keys.BiggerPage):
		m.stepPageSize(1)
	case key.Matches(msg, m.keys.SmallerPage):
		m.stepPageSize(-1)

	case key.Matches(msg, m.keys.Columns):
		m.mode = modeColumns
		m.columnCursor = 0
	case key.Matches(msg, m.keys.New):
		return m.openForm(modal.ActionCreate)
	case key.Matches(msg, m.keys.Edit):
		return m.openForm(modal.ActionUpdate)
	case key.Matches(msg, m.keys.Duplicate):
		return m.openForm(modal.ActionDuplicate)
	case key.Matches(msg, m.keys.Delete):
		m.confirmDelete()
	case key.Matches(msg, m.keys.Reload):
		m.dirty = true
	case key.Matches(msg, m.keys.Help):
		if m.helpOps != nil {
			return m.helpOps.showHelpCmd(NewHelpRenderer().RenderHelpContent(m.keys))
		}
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.search.Blur()
		m.mode = modeNormal
		return nil
	case "enter":
		m.search.Blur()
		m.mode = modeNormal
		m.debounce.Submit(m.search.Value())
		return nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != before {
		ticket := m.debounce.Change(value)
		cmd = tea.Batch(cmd, m.debounce.Schedule(ticket))
	}
	return cmd
}

func (m *Model) handleColumnsKey(msg tea.KeyMsg) {
	states := m.columns.States()
	if len(states) == 0 {
		m.mode = modeNormal
		return
	}
	m.columnCursor = min(max(m.columnCursor, 0), len(states)-1)
	current := states[m.columnCursor].ID

	switch msg.String() {
	case "esc", "c", "q":
		m.mode = modeNormal
	case "up", "k":
		if m.columnCursor > 0 {
			m.columnCursor--
		}
	case "down", "j":
		if m.columnCursor < len(states)-1 {
			m.columnCursor++
		}
	case " ", "enter":
		m.columns.ToggleColumn(current)
	case "J":
		if m.columnCursor < len(states)-1 && m.columns.MoveColumn(current, states[m.columnCursor+1].ID) {
			m.columnCursor++
		}
	case "K":
		if m.columnCursor > 0 && m.columns.MoveColumn(current, states[m.columnCursor-1].ID) {
			m.columnCursor--
		}
	case "R":
		m.columns.ResetColumns()
		m.columns.Initialize(UsersTableID, users.ColumnIDs())
		m.columnCursor = 0
	}
	m.syncTable()
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	cs := m.modals.ConfirmState()
	if !cs.IsOpen {
		m.mode = modeNormal
		return nil
	}
	if cs.Config.Loading {
		return nil
	}
	switch msg.String() {
	case "y", "enter":
		m.modals.SetLoading(true)
		return deleteUsersCmd(m.ctx, m.store, cs.RequestID, slices.Clone(m.pendingDelete))
	case "n", "esc", "q":
		m.modals.Cancel()
		m.pendingDelete = nil
	}
	return nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	if m.form == nil {
		m.mode = modeNormal
		return nil
	}
	result, cmd := m.form.update(msg)
	switch result {
	case formCancel:
		m.modals.Close()
		m.form = nil
		return nil
	case formSubmit:
		u, err := users.FromForm(m.form.values())
		if err != nil {
			m.form.setErrors(err)
			return nil
		}
		if m.form.action == modal.ActionUpdate {
			u.ID = m.form.id
		}
		return saveUserCmd(m.ctx, m.store, m.form.action, u)
	}
	return cmd
}

// load requests the page for the current state. Results of earlier
// requests are dropped when they arrive.
func (m *Model) load() tea.Cmd {
	m.seq++
	m.loading = true
	return loadUsersCmd(m.ctx, m.store, m.seq, users.QueryFromState(m.state))
}

func (m *Model) handleLoaded(msg usersLoadedMsg) {
	if msg.seq != m.seq {
		m.logger.Debug("dropping stale page", "seq", msg.seq, "current", m.seq)
		return
	}
	m.loading = false
	if msg.err != nil {
		m.logger.Error("failed to load users", "error", msg.err)
		m.setStatus(fmt.Sprintf("Failed to load users: %v", msg.err), true)
		m.bus.Publish(eventbus.ErrorEvent{Message: "failed to load users", Err: msg.err})
		return
	}

	m.grid.SetServerPage(msg.page.Users, msg.page.Total)
	m.grid.SetPageIndex(msg.page.PageIndex)
	if got := m.grid.Pagination().PageIndex; got != m.state.PageIndex {
		// The page ran past the end, e.g. after a delete.
		m.state.PageIndex = got
		if msg.page.Total > 0 && len(msg.page.Users) == 0 {
			m.dirty = true
		}
	}
	m.tracker.Bind()
	m.syncTable()
}

func (m *Model) handleDeleted(msg usersDeletedMsg) {
	cs := m.modals.ConfirmState()
	if cs.RequestID != msg.requestID {
		m.logger.Debug("dropping stale delete result", "request", msg.requestID)
		return
	}
	if msg.err != nil {
		m.logger.Error("failed to delete users", "error", msg.err)
		m.modals.SetLoading(false)
		m.setStatus(fmt.Sprintf("Delete failed: %v", msg.err), true)
		m.bus.Publish(eventbus.ErrorEvent{Message: "failed to delete users", Err: msg.err})
		return
	}
	m.modals.CloseConfirm()
	m.pendingDelete = nil
	m.tracker.ClearSelection()
	m.bus.Publish(eventbus.UsersDeletedEvent{IDs: msg.ids, Deleted: msg.deleted})
	m.setStatus(fmt.Sprintf("Deleted %d user(s)", msg.deleted), false)
	m.dirty = true
}

func (m *Model) confirmDelete() {
	ids := m.tracker.SelectedRows()
	if len(ids) == 0 {
		m.setStatus("No rows selected", false)
		return
	}
	m.pendingDelete = ids
	title := fmt.Sprintf("Delete %d user(s)?", len(ids))
	m.modals.Confirm(modal.ConfirmConfig{
		Title:        title,
		Description:  "This cannot be undone.",
		ConfirmLabel: "Delete",
		Variant:      modal.VariantDestructive,
		OnCancel: func() {
			m.setStatus("Delete cancelled", false)
		},
	})
}

// onModalChange follows the dialog manager: an open prompt or dialog owns
// the keyboard, and each new prompt is announced once.
func (m *Model) onModalChange(s modal.State) {
	switch {
	case s.Confirm.IsOpen:
		m.mode = modeConfirm
		if s.Confirm.RequestID != m.announced {
			m.announced = s.Confirm.RequestID
			m.bus.Publish(eventbus.ConfirmRequestedEvent{RequestID: s.Confirm.RequestID, Title: s.Confirm.Config.Title})
		}
	case s.Dialog != nil:
		m.mode = modeForm
	case m.mode == modeConfirm || m.mode == modeForm:
		m.mode = modeNormal
	}
}

func (m *Model) openForm(action modal.Action) tea.Cmd {
	schema := users.FormSchema()
	initial := schema.Defaults()
	initial[users.FieldRole] = string(users.RoleUser)
	initial[users.FieldActive] = true

	var payload *modal.Payload
	id := ""
	if action != modal.ActionCreate {
		u, ok := m.cursorUser()
		if !ok {
			return nil
		}
		initial = users.FormValues(u)
		payload = &modal.Payload{ID: u.ID, Item: u}
		if action == modal.ActionUpdate {
			id = u.ID
		}
	}

	m.modals.Open(modal.NameUser, action, payload)
	m.form = newUserForm(schema, action, id, initial)
	return textinput.Blink
}

func (m *Model) cursorUser() (users.User, bool) {
	rows := m.grid.Rows()
	i := m.table.Cursor()
	if i < 0 || i >= len(rows) {
		return users.User{}, false
	}
	return rows[i].Original, true
}

// cycleSortColumn moves to the next sortable column, then back to unsorted.
func (m *Model) cycleSortColumn() {
	cols := m.grid.SortableColumns()
	current := m.grid.Sort().Column
	next := grid.SortState{}
	switch i := slices.Index(cols, current); {
	case current == "" && len(cols) > 0:
		next.Column = cols[0]
	case i >= 0 && i < len(cols)-1:
		next.Column = cols[i+1]
	}
	m.applySort(next)
}

func (m *Model) applySort(s grid.SortState) {
	m.grid.SetSort(s)
	// the page stays on screen until the reload lands
	m.tracker.Bind()
	m.state.Sort = m.grid.Sort()
	m.state.PageIndex = 0
	m.dirty = true
}

func (m *Model) stepPageSize(delta int) {
	sizes := grid.PageSizes
	i := slices.Index(sizes, m.state.PageSize)
	switch {
	case i < 0:
		i = 0
	case i+delta >= 0 && i+delta < len(sizes):
		i += delta
	default:
		return
	}
	m.grid.SetPageSize(sizes[i])
	m.tracker.Bind()
	m.state.PageSize = sizes[i]
	m.state.PageIndex = m.grid.Pagination().PageIndex
	m.dirty = true
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// syncTable rebuilds the table widget from the grid and the column layout.
func (m *Model) syncTable() {
	visible := m.columns.VisibleColumns()
	rows := m.grid.Rows()
	sort := m.grid.Sort()

	cols := make([]table.Column, 0, len(visible)+1)
	cols = append(cols, table.Column{
		Title: views.HeaderCheckbox(m.grid.FilteredSelectedCount(), len(rows)),
		Width: 3,
	})
	for _, id := range visible {
		title := m.titles[id]
		if sort.Column == id {
			if sort.Desc {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		cols = append(cols, table.Column{Title: title, Width: m.widths[id]})
	}

	checked := m.tracker.RowSelectionMap()
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		row := make(table.Row, 0, len(visible)+1)
		row = append(row, views.Checkbox(checked[strconv.Itoa(r.Index)]))
		for _, id := range visible {
			row = append(row, users.Cell(r.Original, id))
		}
		tableRows = append(tableRows, row)
	}

	cursor := m.table.Cursor()
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(tableRows)
	m.table.SetCursor(min(max(cursor, 0), max(len(tableRows)-1, 0)))
}

// View renders the screen
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Users"))
	b.WriteString("\n")
	b.WriteString(views.RenderFilterBar(m.styles, m.filters.Configs(), m.filters.Values(), m.state.Search))
	b.WriteString("\n")
	if m.mode == modeSearch {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(views.RenderFooter(m.styles, m.tracker.SelectedCount(), m.grid.FilteredRowCount(), m.grid.Pagination(), m.grid.PageCount()))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	main := b.String()

	switch m.mode {
	case modeColumns:
		return m.popup.RenderPopupOverlay(main, views.RenderColumnPanel(m.styles, m.columns.States(), m.titles, m.columnCursor), m.height, m.width)
	case modeConfirm:
		if cs := m.modals.ConfirmState(); cs.IsOpen {
			return m.popup.RenderPopupOverlay(main, views.RenderConfirm(m.styles, *cs.Config), m.height, m.width)
		}
	case modeForm:
		if m.form != nil {
			return m.popup.RenderPopupOverlay(main, m.form.view(m.styles), m.height, m.width)
		}
	}
	return main
}

func (m *Model) renderStatus() string {
	var parts []string
	switch {
	case m.loading:
		parts = append(parts, m.styles.StatusLoading.Render("Loading..."))
	case m.status != "" && m.statusErr:
		parts = append(parts, m.styles.StatusError.Render(m.status))
	case m.status != "":
		parts = append(parts, m.styles.StatusSuccess.Render(m.status))
	}
	if q := m.state.String(); q != "" {
		parts = append(parts, m.styles.Dim.Render("?"+q))
	}
	return strings.Join(parts, "  ")
}
