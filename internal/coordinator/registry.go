package coordinator

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Route names a screen module.
type Route string

func (r Route) String() string { return string(r) }

// Presentable is a built screen that a window can show.
type Presentable interface {
	Route() Route
	String() string
}

// Builder constructs a new Presentable every time it is called.
type Builder func() Presentable

// Registry maps routes to builders. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builders map[Route]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[Route]Builder)}
}

// Register adds the builder for route. Registering a route twice is a
// programmer error and panics.
func (r *Registry) Register(route Route, b Builder) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.builders[route]; exists {
		panic(fmt.Sprintf("coordinator: route %q registered twice", route))
	}
	r.builders[route] = b
	return r
}

// Resolve builds a fresh Presentable for route.
func (r *Registry) Resolve(route Route) (Presentable, error) {
	r.mu.RLock()
	b, ok := r.builders[route]
	r.mu.RUnlock()
	if !ok || b == nil {
		return nil, fmt.Errorf("route %q: %w", route, ErrNotResolved)
	}
	p := b()
	if p == nil {
		return nil, fmt.Errorf("route %q: builder returned nothing: %w", route, ErrNotResolved)
	}
	slog.Debug("module built", "route", route.String())
	return p, nil
}

// Routes returns the registered routes, sorted.
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Route, 0, len(r.builders))
	for route := range r.builders {
		out = append(out, route)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
