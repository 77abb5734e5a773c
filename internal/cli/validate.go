package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/journey/internal/timeline"
)

// ValidationIssue is one malformed record.
type ValidationIssue struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Events int               `json:"events"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <timeline-file|->",
		Short: "Validate a timeline without building",
		Long: `Check that every record of a timeline normalizes to an event.

Unlike build, which stops at the first malformed record, validate reports
all of them.

Exit codes:
  0 - All records valid
  1 - One or more malformed records
  2 - Command error (unreadable or undecodable input)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadTimeline(path, cmd.InOrStdin())
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("Validating %d record(s) from %s", len(loaded.Records), path)

	result := ValidationResult{Valid: true, Events: len(loaded.Records)}
	for _, err := range timeline.Validate(loaded.Records) {
		var me *timeline.MalformedEventError
		if errors.As(err, &me) {
			result.Errors = append(result.Errors, ValidationIssue{Index: me.Index, Field: me.Field, Reason: me.Reason})
		}
	}
	result.Valid = len(result.Errors) == 0

	if formatter.IsJSON() {
		if err := formatter.encode(CLIResponse{Status: statusOf(result.Valid), Data: result}); err != nil {
			return err
		}
	} else {
		outputValidationText(formatter, result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d malformed record(s)", len(result.Errors)))
	}
	return nil
}

func outputValidationText(f *OutputFormatter, result ValidationResult) {
	if result.Valid {
		fmt.Fprintf(f.Writer, "✓ %d event(s) valid\n", result.Events)
		return
	}

	fmt.Fprintf(f.Writer, "✗ %d malformed record(s)\n", len(result.Errors))
	for _, issue := range result.Errors {
		fmt.Fprintf(f.Writer, "  [%d] %s: %s\n", issue.Index, issue.Field, issue.Reason)
	}
}

func statusOf(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
