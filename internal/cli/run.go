package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ergochat/readline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/engine"
	"github.com/roach88/uniflow/internal/router"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	MetricsAddr string
	HistoryFile string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start an interactive session against a live store",
		Long: `Start the store with the configured storage and network and read actions
from an interactive prompt. The theme is restored from storage on start.

Type an action (tab completes names), "state", "route <op>", "help" or
"quit". With --metrics-addr the store's Prometheus metrics are served on
/metrics.

Example:
  uniflow run
  uniflow run --metrics-addr :9090 --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides metrics.addr)")
	cmd.Flags().StringVar(&opts.HistoryFile, "history", defaultHistoryFile(), "readline history file")

	return cmd
}

func defaultHistoryFile() string {
	return filepath.Join(os.TempDir(), "uniflow_history")
}

// commandContext returns cmd's context cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runInteractive(opts *RunOptions, cmd *cobra.Command) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	env, err := openEnvironment(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to set up services", err)
	}
	defer env.Close()

	var reg prometheus.Registerer
	addr := opts.MetricsAddr
	if addr == "" {
		addr = opts.Config.Metrics.Addr
	}
	if addr != "" {
		r := newMetricsRegistry()
		if c, ok := env.kv.(interface{ Collector() prometheus.Collector }); ok {
			r.MustRegister(c.Collector())
		}
		serveMetrics(ctx, addr, r)
		reg = r
	}

	j, journalOpts, err := openJournal(ctx, opts.Config.Journal.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	if j != nil {
		defer j.Close()
	}

	st := app.NewStore(app.State{}, env.services, append(storeOptions(opts.Config, reg), journalOpts...)...)
	stop := startStore(ctx, st)
	defer stop()

	nav := router.New(app.ScreenHome)
	defer nav.Close()

	session := &replSession{
		store:   st,
		router:  nav,
		out:     cmd.OutOrStdout(),
		timeout: idleTimeout(opts.Config),
	}
	if err := sendAndWait(ctx, st, []app.Action{app.ThemeInitialize{}}, session.timeout); err != nil {
		slog.Warn("theme not restored", "error", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "uniflow> ",
		HistoryFile:       opts.HistoryFile,
		AutoComplete:      replCompleter(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "quit",
		HistorySearchFold: true,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start prompt", err)
	}
	defer rl.Close()

	fmt.Fprintln(session.out, st.State())
	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return WrapExitError(ExitFailure, "prompt failed", err)
		}

		quit, err := session.exec(ctx, line)
		if err != nil {
			fmt.Fprintf(session.out, "error: %v\n", err)
		}
		if quit {
			break
		}
	}

	slog.Info("session ended")
	if err := journalErr(j); err != nil {
		return WrapExitError(ExitFailure, "journal write failed", err)
	}
	return nil
}

func replCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(replCompletions()...)
}

// replCompletions is the top level of the completion tree.
func replCompletions() []*readline.PrefixCompleter {
	items := []*readline.PrefixCompleter{
		readline.PcItem("help"),
		readline.PcItem("state"),
		readline.PcItem("actions"),
		readline.PcItem("route",
			readline.PcItem("navigate:"),
			readline.PcItem("replace:"),
			readline.PcItem("back"),
			readline.PcItem("backto:"),
			readline.PcItem("root"),
		),
		readline.PcItem("quit"),
	}
	for _, name := range app.ActionNames() {
		items = append(items, readline.PcItem(name))
	}
	return items
}

// replSession executes prompt lines. It is separate from the prompt so it
// can be driven without a terminal.
type replSession struct {
	store   *app.Store
	router  *router.Router[app.Screen]
	out     io.Writer
	timeout time.Duration
}

const replHelp = `Commands:
  <action> [<action>...]   dispatch actions, e.g. counter.increase counter.update:5
  state                    print the current state
  actions                  list action names
  route <op>               apply a router operation (navigate:<screen>, back[:n], backto:<screen>, root)
  help                     show this help
  quit                     leave the session`

// exec runs one line and reports whether the session should end.
func (s *replSession) exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, replHelp)
		return false, nil
	case "state":
		fmt.Fprintln(s.out, s.store.State())
		return false, nil
	case "actions":
		fmt.Fprintln(s.out, strings.Join(app.ActionNames(), "\n"))
		return false, nil
	case "route":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: route <op>")
		}
		op, err := parseRouteOp(fields[1])
		if err != nil {
			return false, err
		}
		op(s.router)
		fmt.Fprintln(s.out, formatStack(s.router.Stack()))
		return false, nil
	}

	actions, err := app.ParseActions(fields)
	if err != nil {
		return false, err
	}
	if err := sendAndWait(ctx, s.store, actions, s.timeout); err != nil {
		if errors.Is(err, engine.ErrStopped) {
			return true, err
		}
		return false, err
	}
	fmt.Fprintln(s.out, s.store.State())
	return false, nil
}
