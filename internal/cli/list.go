package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/journey/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
}

// ListResult holds the runs in a store.
type ListResult struct {
	Runs []store.RunSummary `json:"runs"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs",
		Long: `List runs stored by "journey build --db", oldest first.

Example:
  journey list --db ./journey.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openStore(formatter, opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	if formatter.IsJSON() {
		return formatter.Success(ListResult{Runs: runs})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s %-36s %-12s %-8s %5s %5s  %s\n", "SEQ", "RUN ID", "GRAPH", "POLICY", "NODES", "EDGES", "SOURCE")
	for _, r := range runs {
		fmt.Fprintf(w, "%-4d %-36s %-12s %-8s %5d %5d  %s\n",
			r.Seq, r.ID, truncateID(r.GraphID), r.Policy, r.Stats.LiveNodes, r.Stats.Edges, r.Source)
	}
	return nil
}
