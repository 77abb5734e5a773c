package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/journey/internal/engine"
	"github.com/roach88/journey/internal/ir"
	"github.com/roach88/journey/internal/store"
	"github.com/roach88/journey/internal/timeline"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Policy   string
	Database string
	All      bool
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <timeline-file|->",
		Short: "Build the graph for a timeline",
		Long: `Build the state transition graph for a timeline file.

The input is a JSON array or YAML sequence of lifecycle records, or a
lifecycle API response envelope. Use "-" to read JSON from stdin.

With --db the run is persisted; building the same timeline under the same
policy again returns the existing run.

Exit codes:
  0 - Graph built
  2 - Command error (unreadable input, malformed event, store failure)

Examples:
  journey build timeline.json
  journey build timeline.yaml --policy fold --format dot
  journey build - --db ./journey.db < timeline.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Policy, "policy", "", "recurrence policy (forward|fold); overrides config")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database to store the run in")
	cmd.Flags().BoolVar(&opts.All, "all", false, "include folded nodes and their edges")

	return cmd
}

func runBuild(opts *BuildOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	settings := opts.settings()
	logger := opts.logger()

	policyName := settings.Recurrence
	if opts.Policy != "" {
		policyName = opts.Policy
	}
	policy, err := engine.ParsePolicy(policyName)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	loaded, err := LoadTimeline(path, cmd.InOrStdin())
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("Loaded %d record(s) from %s", len(loaded.Records), path)

	events, err := timeline.Normalize(loaded.Records)
	if err != nil {
		return failMalformed(formatter, err)
	}

	builder := engine.New(
		engine.WithPolicy(policy),
		engine.WithSuffixes(settings.DeploymentSuffix, settings.BuildSuffix),
		engine.WithLogger(logger),
	)
	g := builder.Build(events)

	graphID, err := ir.GraphID(g)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	logger.Info("graph built",
		"events", g.Stats.Events,
		"live_nodes", g.Stats.LiveNodes,
		"edges", g.Stats.Edges,
		"policy", g.Policy)

	result := newGraphResult(g, graphID, opts.All)

	database := settings.Database
	if opts.Database != "" {
		database = opts.Database
	}
	if database != "" {
		id, inserted, err := storeRun(cmd, database, loaded, events, g)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeLoadFailed, err.Error(), nil)
		}
		result.RunID = id
		result.Inserted = inserted
		logger.Info("run stored", "run_id", id, "inserted", inserted, "db", database)
	}

	return writeGraph(formatter, result)
}

func storeRun(cmd *cobra.Command, database string, loaded *LoadResult, events []ir.Event, g *ir.Graph) (string, bool, error) {
	st, err := store.Open(database)
	if err != nil {
		return "", false, err
	}
	defer st.Close()

	run, err := store.NewRun(loaded.Source, events, g, loaded.Raw)
	if err != nil {
		return "", false, err
	}
	return st.WriteRun(cmd.Context(), run)
}

// failMalformed reports a normalization failure with the offending record.
func failMalformed(f *OutputFormatter, err error) error {
	var me *timeline.MalformedEventError
	if errors.As(err, &me) {
		return f.Fail(ExitCommandError, ErrCodeMalformed, me.Error(), map[string]any{
			"index": me.Index,
			"field": me.Field,
		})
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}
