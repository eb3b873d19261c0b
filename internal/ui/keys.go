package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of the users screen.
type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Toggle       key.Binding
	SelectAll    key.Binding
	ToggleHeader key.Binding
	ClearSel     key.Binding
	Search       key.Binding
	StatusFilter key.Binding
	RoleFilter   key.Binding
	ClearFilters key.Binding
	Columns      key.Binding
	Sort         key.Binding
	SortDir      key.Binding
	PrevPage     key.Binding
	NextPage     key.Binding
	BiggerPage   key.Binding
	SmallerPage  key.Binding
	New          key.Binding
	Edit         key.Binding
	Duplicate    key.Binding
	Delete       key.Binding
	Reload       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle row")),
		SelectAll:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select page")),
		ToggleHeader: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "header checkbox")),
		ClearSel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		StatusFilter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "status filter")),
		RoleFilter:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "role filter")),
		ClearFilters: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		Columns:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "columns")),
		Sort:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		SortDir:      key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort direction")),
		PrevPage:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous page")),
		NextPage:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page")),
		BiggerPage:   key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "more rows")),
		SmallerPage:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer rows")),
		New:          key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new user")),
		Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit user")),
		Duplicate:    key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "duplicate user")),
		Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete selected")),
		Reload:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Search, k.StatusFilter, k.RoleFilter, k.Columns, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.BiggerPage, k.SmallerPage},
		{k.Toggle, k.SelectAll, k.ToggleHeader, k.ClearSel},
		{k.Search, k.StatusFilter, k.RoleFilter, k.ClearFilters, k.Sort, k.SortDir},
		{k.Columns, k.New, k.Edit, k.Duplicate, k.Delete, k.Reload},
		{k.Help, k.Quit},
	}
}

// helpSections names the FullHelp groups for the pager.
var helpSections = []string{"Navigation", "Selection", "Search & Filter", "Actions", "Other"}
