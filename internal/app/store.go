package app

import "github.com/roach88/uniflow/internal/engine"

// Store is the engine instantiated for this domain.
type Store = engine.Store[State, Action, Effect]

// NewStore wires the root reducer and handler over services.
func NewStore(initial State, services Services, opts ...engine.Option) *Store {
	return engine.New[State, Action, Effect](initial, Reducer{}, NewHandler(services), opts...)
}
