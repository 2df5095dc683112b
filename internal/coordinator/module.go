package coordinator

import "fmt"

// ModuleState is the screen-specific slice of state a module starts from.
// Default is called on the zero value and returns the initial state.
type ModuleState[S any] interface {
	comparable
	Default() S
}

// Module is a screen built from a state and an optional output. The output
// is owned by whoever builds the module; the module only calls it.
type Module[S ModuleState[S], O any] struct {
	route  Route
	state  S
	output O
}

// NewModule creates a module for route.
func NewModule[S ModuleState[S], O any](route Route, state S, output O) *Module[S, O] {
	return &Module[S, O]{route: route, state: state, output: output}
}

// DefaultState returns the default state of S.
func DefaultState[S ModuleState[S]]() S {
	var zero S
	return zero.Default()
}

// ModuleBuilder returns a Builder creating modules from S's default state,
// adjusted by configure when it is not nil.
func ModuleBuilder[S ModuleState[S], O any](route Route, output O, configure func(*S)) Builder {
	return func() Presentable {
		s := DefaultState[S]()
		if configure != nil {
			configure(&s)
		}
		return NewModule(route, s, output)
	}
}

func (m *Module[S, O]) Route() Route { return m.route }

// State returns the state the module was built with.
func (m *Module[S, O]) State() S { return m.state }

// Output returns the module's output, the zero value when none was given.
func (m *Module[S, O]) Output() O { return m.output }

func (m *Module[S, O]) String() string {
	return fmt.Sprintf("%s%+v", m.route, m.state)
}
