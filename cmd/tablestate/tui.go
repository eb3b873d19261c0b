package main

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tablestate/internal/eventbus"
	"tablestate/internal/querystate"
	"tablestate/internal/ui"
)

var tuiQuery string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the users table",
	Long: `Open the users table in the terminal.

The screen starts from --query, a query string as printed when the screen
is closed, so a view can be shared or reopened.

Example:
  tablestate tui
  tablestate tui --query 'search=ada&filter:status=ACTIVE&sort=-createdAt'`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiQuery, "query", "", "initial search, page, sort and filters as a query string")
}

func runTUI(cmd *cobra.Command, args []string) error {
	defaults := querystate.Default()
	defaults.PageSize = app.cfg.Table.PageSize
	initial, err := querystate.Parse(tuiQuery, defaults)
	if err != nil {
		return err
	}

	model := ui.NewModel(cmd.Context(), ui.Options{
		Store:    app.users,
		Storage:  app.prefs,
		Bus:      app.bus,
		Logger:   slog.Default(),
		Initial:  initial,
		Debounce: app.cfg.Search.Debounce,
	})

	opts := []tea.ProgramOption{tea.WithContext(cmd.Context())}
	if app.cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, opts...)
	model.SetProgram(p)

	unsubscribe := logEvents(app.bus)
	defer unsubscribe()
	// Events are published from inside Update; Send would block the loop.
	defer app.bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		go p.Send(ui.EventMsg{Event: e})
	})()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	if q := model.State().String(); q != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "--query '%s'\n", q)
	}
	return nil
}

// logEvents writes every table event to the log.
func logEvents(bus eventbus.EventBus) func() {
	types := []eventbus.EventType{
		eventbus.EventSelectionChanged,
		eventbus.EventFiltersChanged,
		eventbus.EventColumnsChanged,
		eventbus.EventSearchSubmitted,
		eventbus.EventConfirmRequested,
		eventbus.EventUsersDeleted,
		eventbus.EventError,
	}
	unsubs := make([]func(), 0, len(types))
	for _, t := range types {
		unsubs = append(unsubs, bus.Subscribe(t, func(e eventbus.DomainEvent) {
			switch e := e.(type) {
			case eventbus.SelectionChangedEvent:
				slog.Debug("selection changed", "table", e.TableID, "count", len(e.IDs))
			case eventbus.FiltersChangedEvent:
				slog.Info("filters changed", "table", e.TableID, "filters", e.Values)
			case eventbus.ColumnsChangedEvent:
				slog.Info("columns changed", "table", e.TableID, "columns", len(e.States))
			case eventbus.SearchSubmittedEvent:
				slog.Info("search submitted", "table", e.TableID, "query", e.Query)
			case eventbus.ConfirmRequestedEvent:
				slog.Debug("confirm requested", "request", e.RequestID, "title", e.Title)
			case eventbus.UsersDeletedEvent:
				slog.Info("users deleted", "count", e.Deleted)
			case eventbus.ErrorEvent:
				slog.Error(e.Message, "error", e.Err)
			}
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
