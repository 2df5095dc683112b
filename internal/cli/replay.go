package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/uniflow/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Flow string // replay a single flow
}

// ReplayResult is the output of the replay command.
type ReplayResult struct {
	Journal string `json:"journal"`
	Flow    string `json:"flow,omitempty"`
	journal.Report
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <journal>",
		Short: "Re-reduce a transition journal and report divergences",
		Long: `Replay every transition recorded in a journal through the reducer, starting
from each transition's recorded predecessor state, and compare the effects
and resulting state with what was recorded.

Exits with code 1 when any transition diverges.

Example:
  uniflow dispatch counter.fetch_from_storage --journal ./uniflow.journal
  uniflow replay ./uniflow.journal
  uniflow replay ./uniflow.journal --flow 0190a6e2-... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Flow, "flow", "", "replay only this flow")

	return cmd
}

func runReplay(opts *ReplayOptions, path string, cmd *cobra.Command) error {
	// Open would create an empty journal for a mistyped path.
	if _, err := os.Stat(path); err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}

	j, err := journal.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	var report journal.Report
	if opts.Flow != "" {
		report, err = j.ReplayFlow(ctx, opts.Flow)
	} else {
		report, err = j.Replay(ctx)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "replay failed", err)
	}

	result := ReplayResult{Journal: path, Flow: opts.Flow, Report: report}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())

	if !report.OK() {
		if opts.Format == "json" {
			if err := formatter.Fail("E_REPLAY_DIVERGED", "journal replay diverged", result); err != nil {
				return err
			}
		} else {
			writeReplay(cmd.OutOrStdout(), result)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d divergence(s)", len(report.Divergences)))
	}

	return formatter.Emit(result, func(w io.Writer) {
		writeReplay(w, result)
	})
}

func writeReplay(w io.Writer, r ReplayResult) {
	for _, d := range r.Divergences {
		fmt.Fprintf(w, "✗ %s\n", d)
	}
	fmt.Fprintf(w, "replayed %d transition(s) in %d session(s), %d divergence(s)\n",
		r.Transitions, r.Sessions, len(r.Divergences))
	if r.Transitions > 0 {
		fmt.Fprintf(w, "final: %s\n", r.Final)
	}
}
