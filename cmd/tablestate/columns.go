package main

import (
	"fmt"
	"log/slog"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tablestate/internal/columns"
	"tablestate/internal/ui"
	"tablestate/internal/users"
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Inspect and change a table's stored column layout",
}

var columnsShowCmd = &cobra.Command{
	Use:   "show <table>",
	Short: "Print the column layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openColumns(args[0])
		if err != nil {
			return err
		}
		return printColumns(cmd, s)
	},
}

var columnsToggleCmd = &cobra.Command{
	Use:   "toggle <table> <column>",
	Short: "Show or hide a column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openColumns(args[0])
		if err != nil {
			return err
		}
		if !slices.Contains(s.ColumnOrder(), args[1]) {
			return fmt.Errorf("unknown column %q", args[1])
		}
		s.ToggleColumn(args[1])
		return printColumns(cmd, s)
	},
}

var columnsOrderCmd = &cobra.Command{
	Use:   "order <table> <column>...",
	Short: "Put the listed columns first, in the given order",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openColumns(args[0])
		if err != nil {
			return err
		}
		s.UpdateColumnOrder(args[1:])
		return printColumns(cmd, s)
	},
}

var columnsMoveCmd = &cobra.Command{
	Use:   "move <table> <column> <over>",
	Short: "Move a column to the position of another",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openColumns(args[0])
		if err != nil {
			return err
		}
		if !s.MoveColumn(args[1], args[2]) {
			return fmt.Errorf("cannot move %q over %q", args[1], args[2])
		}
		return printColumns(cmd, s)
	},
}

var columnsResetCmd = &cobra.Command{
	Use:   "reset <table>",
	Short: "Forget the stored layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openColumns(args[0])
		if err != nil {
			return err
		}
		s.ResetColumns()
		return printColumns(cmd, s)
	},
}

func init() {
	columnsCmd.AddCommand(columnsShowCmd)
	columnsCmd.AddCommand(columnsToggleCmd)
	columnsCmd.AddCommand(columnsOrderCmd)
	columnsCmd.AddCommand(columnsMoveCmd)
	columnsCmd.AddCommand(columnsResetCmd)
}

// openColumns binds a column store to table. The users table has known
// defaults; other tables must already have a stored layout.
func openColumns(table string) (*columns.Store, error) {
	defaults, err := defaultColumns(table)
	if err != nil {
		return nil, err
	}
	s := columns.NewStore(app.prefs, columns.WithLogger(slog.Default()))
	s.Initialize(table, defaults)
	return s, nil
}

func defaultColumns(table string) ([]string, error) {
	if table == ui.UsersTableID {
		return users.ColumnIDs(), nil
	}
	raw, ok, err := app.prefs.Get(columns.Key(table))
	if err != nil {
		return nil, fmt.Errorf("read layout of %q: %w", table, err)
	}
	if !ok {
		return nil, fmt.Errorf("no layout stored for table %q", table)
	}
	states, err := columns.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("layout of %q: %w", table, err)
	}
	ids := make([]string, len(states))
	for i, st := range states {
		ids[i] = st.ID
	}
	return ids, nil
}

func printColumns(cmd *cobra.Command, s *columns.Store) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tCOLUMN\tVISIBLE")
	for _, st := range s.States() {
		fmt.Fprintf(w, "%d\t%s\t%t\n", st.Order, st.ID, st.Visible)
	}
	return w.Flush()
}
