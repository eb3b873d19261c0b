// Package main provides the tablestate CLI: the users table screen and
// commands to inspect the state it persists.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"tablestate/internal/config"
	"tablestate/internal/eventbus"
	"tablestate/internal/logging"
	"tablestate/internal/storage"
	"tablestate/internal/users"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// demoUsers is the number of users generated for stores without a database.
const demoUsers = 50

var (
	// configFile is set by the --config flag.
	configFile string

	// app is initialized by PersistentPreRunE.
	app *runtime
)

// runtime holds what the commands share.
type runtime struct {
	cfg      *config.Config
	bus      eventbus.EventBus
	prefs    storage.Store
	users    users.Store
	closeLog func() error
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tablestate",
	Short: "Users table with persisted selection, filters and column layout",
	Long: `tablestate shows a paginated users table in the terminal. Selection
follows rows across pages, filters and search are mirrored into a shareable
query string, and the column layout is kept between runs.`,
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeRuntime()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: <user config dir>/tablestate/config.toml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(usersCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "tablestate", version)
	},
}

// initRuntime loads config, sets up logging and opens the stores.
func initRuntime(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	bus := eventbus.New(logging.Default())
	cs := config.NewConfigServiceWithBus(configFile, bus)
	if _, err := config.EnsureDefault(cs); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	cfg, err := cs.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.UI.LogLevel)); err != nil {
		return fmt.Errorf("%w: log level %q", config.ErrInvalidConfig, cfg.UI.LogLevel)
	}
	logPath := cfg.UI.LogFile
	if !filepath.IsAbs(logPath) {
		logPath = filepath.Join(filepath.Dir(cs.Path()), logPath)
	}
	closeLog, err := logging.SetupFile(logPath, level)
	if err != nil {
		return err
	}
	slog.Info("starting", "command", cmd.CommandPath(), "config", cs.Path(), "backend", cfg.Storage.Backend)

	rt := &runtime{cfg: cfg, bus: bus, closeLog: closeLog}
	if err := rt.open(cmd.Context()); err != nil {
		closeLog()
		return err
	}
	app = rt
	return nil
}

// open connects the preference storage and the users store. The sqlite
// backend keeps both in one database; the others get generated users.
func (rt *runtime) open(ctx context.Context) error {
	prefs, err := storage.Open(storage.Options{Backend: rt.cfg.Storage.Backend, Path: rt.cfg.Storage.Path})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	rt.prefs = prefs

	if db, ok := prefs.(*storage.SQLiteStorage); ok {
		store, err := users.NewSQLiteStore(ctx, db.DB())
		if err != nil {
			prefs.Close()
			return err
		}
		rt.users = store
		return nil
	}

	mem := users.NewMemoryStore()
	if _, err := users.Seed(ctx, mem, demoUsers, rand.New(rand.NewPCG(1, 1))); err != nil {
		prefs.Close()
		return err
	}
	rt.users = mem
	return nil
}

// closeRuntime releases the stores and the log file.
func closeRuntime() error {
	if app == nil {
		return nil
	}
	var errs []error
	if app.users != nil {
		errs = append(errs, app.users.Close())
	}
	if app.prefs != nil {
		errs = append(errs, app.prefs.Close())
	}
	if app.closeLog != nil {
		errs = append(errs, app.closeLog())
	}
	app = nil
	return errors.Join(errs...)
}
