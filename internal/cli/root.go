package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/uniflow/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is loaded before any subcommand runs.
	Config config.Config

	// LogWriter receives log records. Defaults to os.Stderr.
	LogWriter io.Writer
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the uniflow CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "uniflow",
		Short: "uniflow - unidirectional state and navigation",
		Long: `A unidirectional state engine (action, reducer, effect, re-dispatch)
with a declarative router and an imperative coordinator.

Configuration is read from --config, $UNIFLOW_CONFIG or
~/.config/uniflow/config.toml, and every key can be overridden with a
UNIFLOW_ environment variable (e.g. UNIFLOW_STORAGE_BACKEND=sqlite).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Config = cfg
			if err := setupLogging(opts); err != nil {
				return WrapExitError(ExitCommandError, "invalid log settings", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (TOML or YAML)")

	cmd.AddCommand(NewDispatchCommand(opts))
	cmd.AddCommand(NewRouteCommand(opts))
	cmd.AddCommand(NewCoordinateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTUICommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// setupLogging installs the default slog logger. --verbose wins over
// log.level.
func setupLogging(opts *RootOptions) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.Config.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}

	w := opts.LogWriter
	if w == nil {
		w = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(opts.Config.Log.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
