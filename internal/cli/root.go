package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/pointsx/internal/config"
	"github.com/roach88/pointsx/internal/ledger"
	"github.com/roach88/pointsx/internal/memstore"
	"github.com/roach88/pointsx/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string
	ConfigPath string

	// Config is the loaded config with flag overrides applied.
	// Set by the root command before any subcommand runs.
	Config config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// DefaultConfigPath is read when --config is not given. A missing file
// means defaults.
const DefaultConfigPath = "pointsx.cue"

// NewRootCommand creates the root command for the pointsx CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pointsx",
		Short: "pointsx - point/token exchange ledger",
		Long: `An append-only ledger of point transfers between users.

Every transfer is recorded; balances are the sum of a (sender, receiver,
token) triple's history. Listings aggregate totals per sender, per token
or per receiver.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", `path to SQLite database, or ":memory:" (default from config)`)
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", DefaultConfigPath, "path to CUE config file")

	// Add subcommands
	cmd.AddCommand(NewCreateUserCommand(opts))
	cmd.AddCommand(NewUserListCommand(opts))
	cmd.AddCommand(NewCreateTokenCommand(opts))
	cmd.AddCommand(NewTokenListCommand(opts))
	cmd.AddCommand(NewTransferCommand(opts))
	cmd.AddCommand(NewBalanceCommand(opts))
	cmd.AddCommand(NewListUserTokensCommand(opts))
	cmd.AddCommand(NewListTokensCommand(opts))
	cmd.AddCommand(NewListUsersCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve loads the config, applies flag overrides and sets up logging.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return &ExitError{Code: ExitCommandError, ErrCode: ErrCodeConfig, Message: "failed to load config", Err: err}
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DB = o.Database
	}
	if flags.Changed("format") {
		cfg.Format = o.Format
	}
	if !isValidFormat(cfg.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, ValidFormats))
	}
	o.Format = cfg.Format
	o.Database = cfg.DB
	o.Config = cfg

	level := cfg.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
	return nil
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// openLedger opens the configured backend and returns an engine over it.
// The returned close function releases the backend.
func (o *RootOptions) openLedger() (*ledger.Engine, func() error, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if o.Config.InMemory() {
		var mopts []memstore.Option
		if o.Config.UniqueNames {
			mopts = append(mopts, memstore.WithUniqueNames())
		}
		return ledger.New(memstore.New(mopts...), ledger.WithLogger(logger)), func() error { return nil }, nil
	}

	logger.Debug("opening database", "path", o.Config.DB)
	st, err := store.OpenWithOptions(o.Config.DB, store.Options{
		MaxOpenConns: o.Config.MaxOpenConns,
		UniqueNames:  o.Config.UniqueNames,
	})
	if err != nil {
		return nil, nil, ledger.StorageFailure("open database", err)
	}
	return ledger.New(st, ledger.WithLogger(logger)), st.Close, nil
}

// withLedger opens the ledger, runs fn and closes the ledger.
func (o *RootOptions) withLedger(cmd *cobra.Command, fn func(ctx context.Context, eng *ledger.Engine, f *OutputFormatter) error) error {
	eng, closeFn, err := o.openLedger()
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(cmd.Context(), eng, o.formatter(cmd))
}

// Execute runs the CLI with args and returns the process exit code.
// Errors are reported here, once: as a JSON envelope on stdout when the
// format is json, otherwise as a line on stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	code, exit := classifyError(err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Reported {
		return exit
	}

	format := opts.Format
	if !isValidFormat(format) {
		format = "text"
	}
	f := &OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr, Verbose: opts.Verbose}
	_ = f.Error(code, err.Error(), nil)
	return exit
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
