package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/router"
)

// RouteOptions holds flags for the route command.
type RouteOptions struct {
	*RootOptions
	Start []string // initial stack
}

// RouteStep is one applied router operation.
type RouteStep struct {
	Op    string       `json:"op"`
	Stack []app.Screen `json:"stack"`
}

// RouteResult is the output of the route command.
type RouteResult struct {
	Steps []RouteStep  `json:"steps"`
	Stack []app.Screen `json:"stack"`
}

type routeOp func(r *router.Router[app.Screen])

// NewRouteCommand creates the route command.
func NewRouteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RouteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "route <op>...",
		Short: "Apply navigation operations to a router stack",
		Long: `Apply operations to a declarative navigation stack of screens and print
the stack after each one. Out-of-range requests are clamped.

Operations:
  navigate:<screen>[,<screen>...]   push one or more screens
  replace:<screen>[,<screen>...]    replace the whole stack
  back[:n]                          pop n screens (default 1)
  backto:<screen>                   pop to the last occurrence of screen
  root                              empty the stack

Screens: home, counter, settings, about.

Example:
  uniflow route navigate:home navigate:counter,settings backto:home`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(opts, args, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Start, "start", nil, "initial stack, root first")

	return cmd
}

func runRoute(opts *RouteOptions, args []string, cmd *cobra.Command) error {
	start, err := parseScreens(strings.Join(opts.Start, ","))
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --start", err)
	}
	ops := make([]routeOp, len(args))
	for i, arg := range args {
		if ops[i], err = parseRouteOp(arg); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid operation %d", i), err)
		}
	}

	r := router.New(start...)
	defer r.Close()

	result := RouteResult{Steps: make([]RouteStep, 0, len(ops))}
	for i, op := range ops {
		op(r)
		result.Steps = append(result.Steps, RouteStep{Op: args[i], Stack: r.Stack()})
	}
	result.Stack = r.Stack()

	return newFormatter(opts.RootOptions, cmd.OutOrStdout()).Emit(result, func(w io.Writer) {
		for _, s := range result.Steps {
			fmt.Fprintf(w, "%-28s %s\n", s.Op, formatStack(s.Stack))
		}
	})
}

func parseRouteOp(s string) (routeOp, error) {
	name, arg, hasArg := strings.Cut(s, ":")
	switch name {
	case "navigate", "replace":
		screens, err := parseScreens(arg)
		if err != nil {
			return nil, err
		}
		if len(screens) == 0 {
			return nil, fmt.Errorf("%s: at least one screen is required", name)
		}
		if name == "replace" {
			return func(r *router.Router[app.Screen]) { r.Replace(screens...) }, nil
		}
		if len(screens) == 1 {
			return func(r *router.Router[app.Screen]) { r.Navigate(screens[0]) }, nil
		}
		return func(r *router.Router[app.Screen]) { r.NavigateAll(screens...) }, nil
	case "back":
		n := 1
		if hasArg {
			var err error
			if n, err = strconv.Atoi(arg); err != nil {
				return nil, fmt.Errorf("back: invalid count %q", arg)
			}
		}
		return func(r *router.Router[app.Screen]) { r.Back(n) }, nil
	case "backto":
		screen, err := app.ParseScreen(arg)
		if err != nil {
			return nil, err
		}
		return func(r *router.Router[app.Screen]) { r.BackTo(screen) }, nil
	case "root":
		if hasArg {
			return nil, fmt.Errorf("root takes no argument")
		}
		return func(r *router.Router[app.Screen]) { r.ToRoot() }, nil
	default:
		ops := []string{"navigate", "replace", "back", "backto", "root"}
		if suggestion := app.Suggest(name, ops); suggestion != "" {
			return nil, fmt.Errorf("unknown operation %q (did you mean %q?)", name, suggestion)
		}
		return nil, fmt.Errorf("unknown operation %q", name)
	}
}

func parseScreens(list string) ([]app.Screen, error) {
	if list == "" {
		return nil, nil
	}
	parts := strings.Split(list, ",")
	out := make([]app.Screen, 0, len(parts))
	for _, p := range parts {
		s, err := app.ParseScreen(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func formatStack(stack []app.Screen) string {
	names := make([]string, len(stack))
	for i, s := range stack {
		names[i] = s.String()
	}
	return "[" + strings.Join(names, " > ") + "]"
}
