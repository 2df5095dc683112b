package coordinator

import (
	"fmt"
	"log/slog"
	"sync"
)

// State is the coordinator's root state.
type State int

const (
	StateNoWindow State = iota
	StateFlatRoot
	StateNavRoot
)

func (s State) String() string {
	switch s {
	case StateNoWindow:
		return "no_window"
	case StateFlatRoot:
		return "flat_root"
	case StateNavRoot:
		return "nav_root"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Coordinator owns the window root and, once SetNavRoot has been called,
// its navigation stack.
type Coordinator struct {
	registry *Registry

	mu     sync.Mutex
	window Window
	nav    *NavStack
}

// New creates a coordinator resolving routes from registry.
func New(registry *Registry) *Coordinator {
	return &Coordinator{registry: registry}
}

// State reports which root the window currently shows.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.window == nil:
		return StateNoWindow
	case c.nav != nil:
		return StateNavRoot
	default:
		return StateFlatRoot
	}
}

// Nav returns the navigation stack, nil unless the state is StateNavRoot.
func (c *Coordinator) Nav() *NavStack {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav
}

// Start attaches window and shows route as a flat root without animation.
// The window is kept even when route cannot be resolved.
func (c *Coordinator) Start(window Window, route Route) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.window = window
	p, err := c.registry.Resolve(route)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	c.nav = nil
	window.SetRoot(p, AnimationNone)
	window.MakeKeyAndVisible()
	slog.Debug("coordinator started", "route", route.String())
	return nil
}

// SetRoot cross-fades the window to a flat root showing route.
func (c *Coordinator) SetRoot(route Route) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.registry.Resolve(route)
	if err != nil {
		return fmt.Errorf("set root: %w", err)
	}
	if c.window == nil {
		return fmt.Errorf("set root %q: %w", route, ErrNoWindow)
	}
	c.nav = nil
	c.window.SetRoot(p, AnimationCrossFade)
	return nil
}

// SetNavRoot cross-fades the window to a new navigation stack rooted at
// route.
func (c *Coordinator) SetNavRoot(route Route) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.registry.Resolve(route)
	if err != nil {
		return fmt.Errorf("set nav root: %w", err)
	}
	if c.window == nil {
		return fmt.Errorf("set nav root %q: %w", route, ErrNoWindow)
	}
	c.nav = newNavStack(p)
	c.window.SetRoot(c.nav, AnimationCrossFade)
	return nil
}

// Push shows route on top of the navigation stack. With cut > 0 the last
// min(cut, depth) screens are dropped first.
func (c *Coordinator) Push(route Route, cut int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nav == nil {
		return fmt.Errorf("push %q: %w", route, ErrNoNavigation)
	}
	p, err := c.registry.Resolve(route)
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	if cut > 0 {
		c.nav.replaceTop(cut, p)
	} else {
		c.nav.push(p)
	}
	slog.Debug("coordinator push", "route", route.String(), "cut", cut, "depth", c.nav.Depth())
	return nil
}

// GoBack pops steps screens. The stack must keep at least its root, so
// steps must be smaller than the depth; otherwise ErrInvalidPopSteps is
// returned and nothing changes.
func (c *Coordinator) GoBack(steps int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nav == nil {
		return fmt.Errorf("go back: %w", ErrNoNavigation)
	}
	depth := c.nav.Depth()
	if steps < 0 || steps >= depth {
		return fmt.Errorf("go back %d of %d: %w", steps, depth, ErrInvalidPopSteps)
	}
	c.nav.truncate(depth - steps)
	return nil
}

// GoToRoot pops every screen but the root.
func (c *Coordinator) GoToRoot() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nav == nil {
		return fmt.Errorf("go to root: %w", ErrNoNavigation)
	}
	c.nav.truncate(1)
	return nil
}
