// Package cli implements the spokewith command line: show, log, edit and
// delete over the calls table.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/spokewith/internal/call"
	"github.com/roach88/spokewith/internal/config"
	"github.com/roach88/spokewith/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // overrides the configured database when set
	Driver   string // overrides the configured driver when set

	// Config controls where settings are loaded from (for testing).
	Config config.Options

	// Clock overrides the wall clock (for testing). If nil, time.Now is used.
	Clock store.Clock
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the spokewith CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spokewith",
		Short: "spokewith - a log of who you spoke with",
		Long: `Log, list, edit and delete calls in a local SQLite database.

The database location comes from --db, SPOKEWITH_DB (environment or .env),
the database key of $XDG_CONFIG_HOME/spokewith/config.yaml, or defaults to
$XDG_DATA_HOME/spokewith/spokewith.db. Use --db :memory: for a throwaway
database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			configureLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}
	cmd.SetFlagErrorFunc(flagError)

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database, or :memory:")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "",
		fmt.Sprintf("SQLite driver (%s|%s)", store.DriverCGO, store.DriverPure))

	// Add subcommands
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

// Execute runs the CLI with os.Args and returns the process exit code.
// Errors are reported on stderr, or on stdout as a JSON envelope when
// --format json is in effect.
func Execute() int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	return execute(cmd, opts, os.Stdout, os.Stderr)
}

func execute(cmd *cobra.Command, opts *RootOptions, stdout, stderr io.Writer) int {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	// Anything cobra rejected before a command ran is a usage problem.
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		err = WrapExitError(ExitCommandError, "invalid command", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: stderr, Verbose: opts.Verbose}
	if f.Format == "json" {
		f.Writer = stdout
	}
	_ = f.Error(errorCode(err), err.Error(), nil)
	return GetExitCode(err)
}

// configureLogging installs the process-wide slog handler.
func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func flagError(cmd *cobra.Command, err error) error {
	return WrapExitError(ExitCommandError, "invalid flags", err)
}

// exactArgs is cobra.ExactArgs with a usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}

// minimumArgs is cobra.MinimumNArgs with a usage exit code.
func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// now returns the current wall time.
func (o *RootOptions) now() time.Time {
	if o.Clock != nil {
		return o.Clock.Now()
	}
	return time.Now()
}

// formatter returns an OutputFormatter writing to cmd's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// openStore resolves configuration, applies flag overrides and opens the
// calls table, creating it if needed. The caller closes the store.
func (o *RootOptions) openStore() (*store.Store[call.Call], error) {
	cfg, err := config.Load(o.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Database != "" {
		cfg.Database = config.ExpandTilde(o.Database)
	}
	if o.Driver != "" {
		cfg.Driver = o.Driver
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	if !store.IsMemory(cfg.Database) {
		if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to create database directory", err)
		}
	}

	storeOpts := []store.Option{
		store.WithDriver(cfg.Driver),
		store.WithPageSize(cfg.PageSize),
		store.WithLogger(slog.Default()),
	}
	if o.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(o.Clock))
	}

	slog.Debug("opening database", "path", cfg.Database, "driver", cfg.Driver)
	st, err := store.Open[call.Call](cfg.Database, storeOpts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// parseID parses a call id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid call id %q", arg))
	}
	return id, nil
}

// parseDate checks a --since/--until/--at value.
func parseDate(flag, value string) error {
	if _, err := time.Parse(call.DateLayout, value); err != nil {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("--%s %q: want a date like 2024-03-01", flag, value))
	}
	return nil
}
