package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/uniflow/internal/coordinator"
)

// demoSteps is the sequence run when coordinate gets no arguments.
var demoSteps = []string{
	"start:splash",
	"navroot:marketing",
	"push:onboarding",
	"back:1",
	"root:splash",
}

// CoordinateStep is one applied coordinator operation.
type CoordinateStep struct {
	Op     string `json:"op"`
	State  string `json:"state"`
	Window string `json:"window"`
	Error  string `json:"error,omitempty"`
}

// CoordinateResult is the output of the coordinate command.
type CoordinateResult struct {
	Steps  []CoordinateStep `json:"steps"`
	Failed int              `json:"failed"`
}

type coordinateOp func(c *coordinator.Coordinator, w coordinator.Window) error

// NewCoordinateCommand creates the coordinate command.
func NewCoordinateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coordinate [op]...",
		Short: "Drive the window coordinator through a sequence of operations",
		Long: `Drive the imperative coordinator against a headless window and print the
window hierarchy after each operation. Unlike the router, the coordinator
is strict: invalid requests fail and leave everything unchanged.

Operations:
  start:<route>           attach the window and show route
  root:<route>            cross-fade to a flat root
  navroot:<route>         cross-fade to a navigation stack rooted at route
  push:<route>[:cut]      push route, dropping cut screens first
  back[:n]                pop n screens (default 1)
  toroot                  pop to the navigation root

Routes: splash, marketing, onboarding.

With no arguments the demo sequence runs:
  ` + strings.Join(demoSteps, " "),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoordinate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runCoordinate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	if len(args) == 0 {
		args = demoSteps
	}
	ops := make([]coordinateOp, len(args))
	for i, arg := range args {
		var err error
		if ops[i], err = parseCoordinateOp(arg); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid operation %d", i), err)
		}
	}

	window := coordinator.NewMemoryWindow()
	coord := coordinator.New(coordinator.DemoRegistry(nil))

	var result CoordinateResult
	for i, op := range ops {
		step := CoordinateStep{Op: args[i]}
		if err := op(coord, window); err != nil {
			step.Error = err.Error()
			result.Failed++
		}
		step.State = coord.State().String()
		step.Window = window.Describe()
		result.Steps = append(result.Steps, step)
	}

	f := newFormatter(opts, cmd.OutOrStdout())
	if err := f.Emit(result, func(w io.Writer) {
		for _, s := range result.Steps {
			if s.Error != "" {
				fmt.Fprintf(w, "%-22s error: %s\n", s.Op, s.Error)
				continue
			}
			fmt.Fprintf(w, "%-22s %-10s %s\n", s.Op, s.State, s.Window)
		}
	}); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d operation(s) failed", result.Failed))
	}
	return nil
}

func parseCoordinateOp(s string) (coordinateOp, error) {
	parts := strings.Split(s, ":")
	name, rest := parts[0], parts[1:]

	intArg := func(def int) (int, error) {
		if len(rest) < 2 {
			return def, nil
		}
		n, err := strconv.Atoi(rest[1])
		if err != nil {
			return 0, fmt.Errorf("%s: invalid count %q", name, rest[1])
		}
		return n, nil
	}

	switch name {
	case "start", "root", "navroot", "push":
		if len(rest) == 0 || rest[0] == "" {
			return nil, fmt.Errorf("%s: route is required", name)
		}
		route := coordinator.Route(rest[0])
		switch name {
		case "start":
			return func(c *coordinator.Coordinator, w coordinator.Window) error { return c.Start(w, route) }, nil
		case "root":
			return func(c *coordinator.Coordinator, _ coordinator.Window) error { return c.SetRoot(route) }, nil
		case "navroot":
			return func(c *coordinator.Coordinator, _ coordinator.Window) error { return c.SetNavRoot(route) }, nil
		}
		cut, err := intArg(0)
		if err != nil {
			return nil, err
		}
		return func(c *coordinator.Coordinator, _ coordinator.Window) error { return c.Push(route, cut) }, nil
	case "back":
		n := 1
		if len(rest) > 0 {
			var err error
			if n, err = strconv.Atoi(rest[0]); err != nil {
				return nil, fmt.Errorf("back: invalid count %q", rest[0])
			}
		}
		return func(c *coordinator.Coordinator, _ coordinator.Window) error { return c.GoBack(n) }, nil
	case "toroot":
		return func(c *coordinator.Coordinator, _ coordinator.Window) error { return c.GoToRoot() }, nil
	default:
		return nil, fmt.Errorf("unknown operation %q", name)
	}
}
