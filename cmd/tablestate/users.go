package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tablestate/internal/filters"
	"tablestate/internal/grid"
	"tablestate/internal/modal"
	"tablestate/internal/querystate"
	"tablestate/internal/users"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Query and change the users behind the table",
}

var (
	listQuery    string
	listSearch   string
	listStatus   []string
	listRoles    []string
	listSort     string
	listPage     int
	listPageSize int
	listJSON     bool
	listExplain  bool
)

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of users",
	Long: `Print one page of users the way the table would show it.

Flags override the matching parts of --query.

Example:
  tablestate users list --status ACTIVE --sort -createdAt
  tablestate users list --query 'search=ada&page=2' --json`,
	Args: cobra.NoArgs,
	RunE: runUsersList,
}

var (
	addName   string
	addEmail  string
	addRole   string
	addActive bool
)

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := users.FromForm(map[string]any{
			users.FieldName:   addName,
			users.FieldEmail:  addEmail,
			users.FieldRole:   strings.ToUpper(addRole),
			users.FieldActive: addActive,
		})
		if err != nil {
			return err
		}
		saved, err := app.users.Create(cmd.Context(), u)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
		return nil
	},
}

var deleteYes bool

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete users by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		deleted := 0
		prompts := modal.NewManager(modal.WithLogger(slog.Default()))
		prompts.Confirm(modal.ConfirmConfig{
			Title:        fmt.Sprintf("Delete %d user(s)?", len(args)),
			ConfirmLabel: "Delete",
			Variant:      modal.VariantDestructive,
			OnConfirm: func() error {
				n, err := app.users.Delete(cmd.Context(), args...)
				if err != nil {
					return fmt.Errorf("delete users: %w", err)
				}
				deleted = n
				return nil
			},
			OnCancel: func() { fmt.Fprintln(out, "Cancelled.") },
		})

		if !deleteYes {
			ok, err := askYesNo(cmd, prompts.ConfirmState().Config.Title)
			if err != nil {
				return err
			}
			if !ok {
				prompts.Cancel()
				return nil
			}
		}
		if err := prompts.Accept(); err != nil {
			return err
		}
		slog.Info("users deleted", "requested", len(args), "deleted", deleted)
		fmt.Fprintf(out, "Deleted %d user(s).\n", deleted)
		return nil
	},
}

// askYesNo prints question and reads one answer line. Anything but y or yes
// is a no, end of input included.
func askYesNo(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

var (
	seedCount int
	seedValue uint64
)

var usersSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount <= 0 {
			return fmt.Errorf("--count must be positive")
		}
		if seedValue == 0 {
			seedValue = uint64(time.Now().UnixNano())
		}
		created, err := users.Seed(cmd.Context(), app.users, seedCount, rand.New(rand.NewPCG(seedValue, seedValue)))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d user(s).\n", len(created))
		return nil
	},
}

func init() {
	f := usersListCmd.Flags()
	f.StringVar(&listQuery, "query", "", "table state as a query string")
	f.StringVar(&listSearch, "search", "", "match name or email")
	f.StringSliceVar(&listStatus, "status", nil, "filter by status (ACTIVE, INACTIVE)")
	f.StringSliceVar(&listRoles, "role", nil, "filter by role (ADMIN, USER)")
	f.StringVar(&listSort, "sort", "", "sort column, prefixed with - for descending")
	f.IntVar(&listPage, "page", 1, "page number")
	f.IntVar(&listPageSize, "page-size", grid.DefaultPageSize, "rows per page")
	f.BoolVar(&listJSON, "json", false, "output as JSON")
	f.BoolVar(&listExplain, "explain", false, "print the filter expression instead of users")

	usersAddCmd.Flags().StringVar(&addName, "name", "", "display name")
	usersAddCmd.Flags().StringVar(&addEmail, "email", "", "email address")
	usersAddCmd.Flags().StringVar(&addRole, "role", string(users.RoleUser), "ADMIN or USER")
	usersAddCmd.Flags().BoolVar(&addActive, "active", true, "create the user as active")

	usersDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without asking")

	usersSeedCmd.Flags().IntVar(&seedCount, "count", demoUsers, "number of users")
	usersSeedCmd.Flags().Uint64Var(&seedValue, "seed", 0, "random seed (0 picks one)")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersDeleteCmd)
	usersCmd.AddCommand(usersSeedCmd)
}

// listState merges --query with the explicit flags.
func listState(cmd *cobra.Command) (querystate.State, error) {
	defaults := querystate.Default()
	defaults.PageSize = app.cfg.Table.PageSize
	s, err := querystate.Parse(listQuery, defaults)
	if err != nil {
		return s, err
	}
	f := cmd.Flags()
	if f.Changed("search") {
		s.Search = listSearch
	}
	if f.Changed("status") {
		s.Filters[users.FilterStatus] = upper(listStatus)
	}
	if f.Changed("role") {
		s.Filters[users.FilterRole] = upper(listRoles)
	}
	if f.Changed("sort") {
		s.Sort = grid.SortState{Column: strings.TrimPrefix(listSort, "-"), Desc: strings.HasPrefix(listSort, "-")}
	}
	if f.Changed("page") {
		s.PageIndex = max(listPage-1, 0)
	}
	if f.Changed("page-size") {
		s.PageSize = listPageSize
	}
	return s, nil
}

func runUsersList(cmd *cobra.Command, args []string) error {
	state, err := listState(cmd)
	if err != nil {
		return err
	}

	if listExplain {
		c := filters.NewComposer(users.FilterConfigs(), state.Filters, filters.WithLogger(slog.Default()))
		if _, err := c.Compile(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Expression())
		return nil
	}

	page, err := app.users.List(cmd.Context(), users.QueryFromState(state))
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	out := cmd.OutOrStdout()
	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	if len(page.Users) == 0 {
		fmt.Fprintln(out, "No users found.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	cols := users.Columns()
	header := make([]string, 0, len(cols)+1)
	header = append(header, "ID")
	for _, c := range cols {
		header = append(header, strings.ToUpper(c.Title))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, u := range page.Users {
		row := make([]string, 0, len(cols)+1)
		row = append(row, u.ID)
		for _, c := range cols {
			row = append(row, users.Cell(u, c.ID))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Page %d of %d, %d user(s). --query '%s'\n", page.PageIndex+1, max(page.PageCount(), 1), page.Total, state.String())
	return nil
}

func upper(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(v)
	}
	return out
}
