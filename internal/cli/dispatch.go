package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/engine"
)

// DispatchOptions holds flags for the dispatch command.
type DispatchOptions struct {
	*RootOptions
	Counter int    // initial counter value
	Dark    bool   // initial theme
	Trace   bool   // include every transition in the output
	Journal string // append transitions to this journal (overrides journal.path)

	// FlowGenerator overrides the flow token generator (for testing).
	FlowGenerator engine.FlowTokenGenerator
}

// TransitionView is the printable form of one committed transition.
type TransitionView struct {
	Seq     int64     `json:"seq"`
	Flow    string    `json:"flow"`
	Action  string    `json:"action"`
	Effects []string  `json:"effects"`
	State   app.State `json:"state"`
}

// DispatchResult is the output of the dispatch command.
type DispatchResult struct {
	Actions []string         `json:"actions"`
	State   app.State        `json:"state"`
	Trace   []TransitionView `json:"trace,omitempty"`
}

// NewDispatchCommand creates the dispatch command.
func NewDispatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DispatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dispatch <action>...",
		Short: "Dispatch actions and print the resulting state",
		Long: `Dispatch one or more actions against a fresh store wired to the
configured storage and network, waiting for every effect and follow-up
action to settle before the next one.

Actions use the textual form name[:argument], for example:
  uniflow dispatch counter.increase counter.save_to_storage
  uniflow dispatch counter.fetch_from_storage --trace
  uniflow dispatch loader.toggle:true counter.update:5 --format json
  uniflow dispatch counter.increase --journal ./uniflow.journal`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Counter, "counter", 0, "initial counter value")
	cmd.Flags().BoolVar(&opts.Dark, "dark", false, "start with the dark theme")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print every transition")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "append transitions to this journal file (overrides journal.path)")

	return cmd
}

func runDispatch(opts *DispatchOptions, args []string, cmd *cobra.Command) error {
	actions, err := app.ParseActions(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid action", err)
	}

	env, err := openEnvironment(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to set up services", err)
	}
	defer env.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	journalPath := opts.Journal
	if journalPath == "" {
		journalPath = opts.Config.Journal.Path
	}
	j, journalOpts, err := openJournal(ctx, journalPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	if j != nil {
		defer j.Close()
	}

	var (
		mu    sync.Mutex
		trace []TransitionView
	)
	storeOpts := append(storeOptions(opts.Config, nil), journalOpts...)
	storeOpts = append(storeOpts, engine.WithRecorder(func(t engine.Transition) {
		state, _ := t.State.(app.State)
		mu.Lock()
		defer mu.Unlock()
		trace = append(trace, TransitionView{
			Seq:     t.Seq,
			Flow:    t.Flow,
			Action:  t.Action,
			Effects: t.Effects,
			State:   state,
		})
	}))
	if opts.FlowGenerator != nil {
		storeOpts = append(storeOpts, engine.WithFlowGenerator(opts.FlowGenerator))
	}

	st := app.NewStore(app.State{Counter: opts.Counter, IsDarkTheme: opts.Dark}, env.services, storeOpts...)
	stop := startStore(ctx, st)
	err = sendAndWait(ctx, st, actions, idleTimeout(opts.Config))
	stop()
	if err != nil {
		return WrapExitError(ExitFailure, "dispatch failed", err)
	}
	if err := journalErr(j); err != nil {
		return WrapExitError(ExitFailure, "journal write failed", err)
	}

	result := DispatchResult{
		Actions: make([]string, len(actions)),
		State:   st.State(),
	}
	for i, a := range actions {
		result.Actions[i] = a.String()
	}
	if opts.Trace {
		mu.Lock()
		result.Trace = append([]TransitionView(nil), trace...)
		mu.Unlock()
	}

	return newFormatter(opts.RootOptions, cmd.OutOrStdout()).Emit(result, func(w io.Writer) {
		writeTrace(w, result.Trace)
		fmt.Fprintln(w, result.State)
	})
}

func writeTrace(w io.Writer, trace []TransitionView) {
	for _, t := range trace {
		line := fmt.Sprintf("[%d] %-28s %s", t.Seq, t.Action, t.State)
		if len(t.Effects) > 0 {
			line += "  -> " + strings.Join(t.Effects, ", ")
		}
		fmt.Fprintln(w, line)
	}
}
