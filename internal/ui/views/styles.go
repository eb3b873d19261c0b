package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Header        lipgloss.Style
	Cell          lipgloss.Style
	Cursor        lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Filter        lipgloss.Style
	FilterActive  lipgloss.Style
	Search        lipgloss.Style
	Footer        lipgloss.Style
	PageCurrent   lipgloss.Style
	Panel         lipgloss.Style
	PanelCursor   lipgloss.Style
	Popup         lipgloss.Style
	Confirm       lipgloss.Style
	Destructive   lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	FormLabel     lipgloss.Style
	FormFocused   lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Header: lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			BorderBottom(true),
		Cell:   lipgloss.NewStyle(),
		Cursor: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(lipgloss.Color("238")).Bold(true),
		Dim:    lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Filter:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		FilterActive: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Search:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Footer:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		PageCurrent:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1),
		PanelCursor: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 2),
		Confirm:       lipgloss.NewStyle().Bold(true),
		Destructive:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true), // red
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(1, 2),
		FormLabel:     lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("252")),
		FormFocused:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
