package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/router"
	"github.com/roach88/uniflow/internal/tui"
)

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal interface",
		Long: `Start a full-screen terminal interface over a live store and router.

Keys: + increase, f fetch from storage, s save, p pull from network,
t toggle theme, 1-4 open a screen, esc back, r root, q quit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(rootOpts, cmd)
		},
	}
	return cmd
}

func runTUI(opts *RootOptions, cmd *cobra.Command) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	env, err := openEnvironment(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to set up services", err)
	}
	defer env.Close()

	j, journalOpts, err := openJournal(ctx, opts.Config.Journal.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	if j != nil {
		defer j.Close()
	}

	st := app.NewStore(app.State{}, env.services, append(storeOptions(opts.Config, nil), journalOpts...)...)
	stop := startStore(ctx, st)
	defer stop()

	nav := router.New(app.ScreenHome)
	defer nav.Close()

	model := tui.New(st, nav)
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return WrapExitError(ExitFailure, "terminal interface failed", err)
	}
	return nil
}
