package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/prefs/defaults"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config
	Verbose bool
	Format  string // "json" | "text"

	// configErr is reported by PersistentPreRunE so that --help still
	// works with a broken environment.
	configErr error
	logger    *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the prefs CLI.
func NewRootCommand() *cobra.Command {
	cfg, cfgErr := LoadConfig()
	opts := &RootOptions{Config: cfg, configErr: cfgErr}

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect and edit typed preferences",
		Long: `Inspect and edit preferences stored as canonical JSON wire values.

Every entry has a kind (bool, int, float, string, bytes, url, array<K>,
object<K>) and a value. Values are validated against their kind before
they are written.

Environment:
  PREFS_BACKEND       sqlite | redis (default sqlite)
  PREFS_DB            SQLite database path (default prefs.db)
  PREFS_REDIS_ADDR    Redis address (default localhost:6379)
  PREFS_REDIS_PREFIX  Redis key prefix (default prefs:)`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return fail(cmd, opts, err)
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", cfg.Backend, "backend (sqlite|redis)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", cfg.DBPath, "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address")
	cmd.PersistentFlags().StringVar(&opts.RedisPrefix, "redis-prefix", cfg.RedisPrefix, "Redis key prefix")

	// Add subcommands
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))

	return cmd
}

// validate checks the environment and global flags.
func (o *RootOptions) validate() error {
	if o.configErr != nil {
		return WrapExitError(ExitCommandError, CodeBackend, "invalid environment", o.configErr)
	}
	if !slices.Contains(ValidFormats, o.Format) {
		return NewExitError(ExitCommandError, CodeInvalidValue,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	if !slices.Contains(ValidBackends, o.Backend) {
		return NewExitError(ExitCommandError, CodeInvalidValue,
			fmt.Sprintf("invalid backend %q: must be one of %v", o.Backend, ValidBackends))
	}
	return nil
}

// newLogger returns a text logger on w: debug level when verbose,
// warnings only otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openStore opens the configured backend and wraps it in a defaults.Store.
// Callers must Close the returned store.
func (o *RootOptions) openStore(ctx context.Context) (*defaults.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := o.log()
	logger.Debug("opening backend", "backend", o.Backend, "db", o.DBPath, "redis_addr", o.RedisAddr)
	backend, err := openBackend(ctx, o.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, CodeBackend, "failed to open backend", err)
	}
	return defaults.New(backend, defaults.WithLogger(logger)), nil
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// log returns the command logger, or slog.Default() before
// PersistentPreRunE has run.
func (o *RootOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

// closeStore closes s, logging rather than returning the error.
func (o *RootOptions) closeStore(s *defaults.Store) {
	if err := s.Close(); err != nil {
		o.log().Error("error closing backend", "error", err)
	}
}
