package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/journey/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	All      bool
	Raw      bool
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a stored run",
		Long: `Show the graph of a run stored by "journey build --db".

With --raw the original timeline input is written instead, byte for byte.

Examples:
  journey show --db ./journey.db 0190a6c4-...
  journey show --db ./journey.db 0190a6c4-... --all --format dot
  journey show --db ./journey.db 0190a6c4-... --raw > timeline.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "include folded nodes and their edges")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "write the stored raw timeline")

	return cmd
}

func runShow(opts *ShowOptions, runID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openStore(formatter, opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.Raw {
		raw, err := st.ReadRawTimeline(cmd.Context(), runID)
		if err != nil {
			return failRead(formatter, runID, err)
		}
		_, err = cmd.OutOrStdout().Write(raw)
		return err
	}

	run, err := st.ReadRun(cmd.Context(), runID)
	if err != nil {
		return failRead(formatter, runID, err)
	}

	result := newGraphResult(run.Graph, run.GraphID, opts.All)
	result.RunID = run.ID
	return writeGraph(formatter, result)
}

// openStore opens the database named by the flag or, failing that, config.
func openStore(f *OutputFormatter, opts *RootOptions, flagValue string) (*store.Store, error) {
	database := flagValue
	if database == "" {
		database = opts.settings().Database
	}
	if database == "" {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound, "database path required (--db or JOURNEY_DATABASE)", nil)
	}

	st, err := store.Open(database)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeLoadFailed, err.Error(), nil)
	}
	return st, nil
}

func failRead(f *OutputFormatter, runID string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run not found: %s", runID), nil)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}
