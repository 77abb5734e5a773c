package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/journey/internal/config"
	"github.com/roach88/journey/internal/logging"
)

// RootOptions holds global flags for all commands, plus the config and
// logger resolved from them before any subcommand runs.
type RootOptions struct {
	Verbose    int
	Quiet      bool
	Format     string // "text" | "json" | "dot"
	ConfigPath string

	Config *config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "dot"}

// NewRootCommand creates the root command for the journey CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "journey",
		Short: "journey - delivery timeline graphs",
		Long: `Reconstruct the causal graph of a delivery pipeline from a flat,
ordered timeline of lifecycle events.

Events are linked along their branch or repository, deployments are
attributed to the build that produced them, and the resulting nodes and
edges are emitted for an external layout engine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v", "verbose output (-v info, -vv debug)")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress all logs")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|dot)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file (default ./"+config.DefaultFile+" if present)")

	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve loads config and applies precedence: flags > environment > file > defaults.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		formatter := o.formatter(cmd)
		if config.IsConfigError(err) {
			_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
			return WrapExitError(ExitCommandError, ErrCodeConfig, err)
		}
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeLoadFailed, err)
	}
	o.Config = cfg

	if !cmd.Flags().Changed("format") {
		o.Format = cfg.Format
	}
	if !isValidFormat(o.Format) {
		return o.formatter(cmd).Fail(ExitCommandError, ErrCodeGeneric,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats), nil)
	}

	level := logging.LevelFromString(cfg.LogLevel)
	if o.Verbose > 0 || o.Quiet {
		level = logging.LevelFromVerbosity(o.Verbose, o.Quiet)
	}
	// Logs go to stderr to keep JSON and DOT output on stdout parseable.
	o.Logger = logging.NewLogger(cmd.ErrOrStderr(), level)

	return nil
}

// logger returns the resolved logger, or a discard logger when a command
// runs without the root pre-run (as in unit tests).
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.NewDiscardLogger()
	}
	return o.Logger
}

// settings returns the resolved config, or schema defaults without a pre-run.
func (o *RootOptions) settings() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose > 0,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
