package coordinator

import "errors"

var (
	// ErrNoWindow means Start has not been called.
	ErrNoWindow = errors.New("no window was set on the coordinator")
	// ErrNotResolved means the registry has no builder for the route.
	ErrNotResolved = errors.New("route could not be resolved from the registry")
	// ErrNoNavigation means the window root is not a navigation stack; call
	// SetNavRoot first.
	ErrNoNavigation = errors.New("navigation stack is not available")
	// ErrInvalidPopSteps means the stack is too shallow for the request.
	ErrInvalidPopSteps = errors.New("cannot pop the requested number of steps")
)
