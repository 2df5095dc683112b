package app

import (
	"fmt"
	"strconv"
)

// Subsystem partitions actions and effects.
type Subsystem string

const (
	SubsystemLoader  Subsystem = "loader"
	SubsystemCounter Subsystem = "counter"
	SubsystemTheme   Subsystem = "theme"
)

// Action is anything that can be dispatched to the store.
//
//sumtype:decl
type Action interface {
	Name() string
	String() string
	Subsystem() Subsystem
	sealedAction()
}

// LoaderAction is an action handled by the loader reducer.
//
//sumtype:decl
type LoaderAction interface {
	Action
	loaderAction()
}

// CounterAction is an action handled by the counter reducer.
//
//sumtype:decl
type CounterAction interface {
	Action
	counterAction()
}

// ThemeAction is an action handled by the theme reducer.
//
//sumtype:decl
type ThemeAction interface {
	Action
	themeAction()
}

type loaderActionBase struct{}

func (loaderActionBase) Subsystem() Subsystem { return SubsystemLoader }
func (loaderActionBase) sealedAction()        {}
func (loaderActionBase) loaderAction()        {}

type counterActionBase struct{}

func (counterActionBase) Subsystem() Subsystem { return SubsystemCounter }
func (counterActionBase) sealedAction()        {}
func (counterActionBase) counterAction()       {}

type themeActionBase struct{}

func (themeActionBase) Subsystem() Subsystem { return SubsystemTheme }
func (themeActionBase) sealedAction()        {}
func (themeActionBase) themeAction()         {}

// LoaderToggle sets the loading flag.
type LoaderToggle struct {
	loaderActionBase
	On bool
}

func (LoaderToggle) Name() string     { return "loader.toggle" }
func (a LoaderToggle) String() string { return "loader.toggle:" + strconv.FormatBool(a.On) }

// CounterIncrease adds one to the counter.
type CounterIncrease struct{ counterActionBase }

func (CounterIncrease) Name() string     { return "counter.increase" }
func (a CounterIncrease) String() string { return a.Name() }

// CounterUpdate replaces the counter.
type CounterUpdate struct {
	counterActionBase
	Value int
}

func (CounterUpdate) Name() string     { return "counter.update" }
func (a CounterUpdate) String() string { return fmt.Sprintf("counter.update:%d", a.Value) }

// CounterFetchFromStorage loads the persisted counter.
type CounterFetchFromStorage struct{ counterActionBase }

func (CounterFetchFromStorage) Name() string     { return "counter.fetch_from_storage" }
func (a CounterFetchFromStorage) String() string { return a.Name() }

// CounterSaveToStorage persists the current counter.
type CounterSaveToStorage struct{ counterActionBase }

func (CounterSaveToStorage) Name() string     { return "counter.save_to_storage" }
func (a CounterSaveToStorage) String() string { return a.Name() }

// CounterPullFromNetwork replaces the counter with a value from the network.
type CounterPullFromNetwork struct{ counterActionBase }

func (CounterPullFromNetwork) Name() string     { return "counter.pull_from_network" }
func (a CounterPullFromNetwork) String() string { return a.Name() }

// ThemeInitialize loads the persisted theme.
type ThemeInitialize struct{ themeActionBase }

func (ThemeInitialize) Name() string     { return "theme.initialize" }
func (a ThemeInitialize) String() string { return a.Name() }

// ThemeSetBlack switches to the dark theme and persists it.
type ThemeSetBlack struct{ themeActionBase }

func (ThemeSetBlack) Name() string     { return "theme.set_black" }
func (a ThemeSetBlack) String() string { return a.Name() }

// ThemeSetWhite switches to the light theme and persists it.
type ThemeSetWhite struct{ themeActionBase }

func (ThemeSetWhite) Name() string     { return "theme.set_white" }
func (a ThemeSetWhite) String() string { return a.Name() }

// Toggle returns the loader action setting the flag to on.
func Toggle(on bool) Action { return LoaderToggle{On: on} }

// Update returns the counter action setting the counter to v.
func Update(v int) Action { return CounterUpdate{Value: v} }

// AllActions returns one instance of every action case, in declaration
// order. Tests use it to prove the reducers are exhaustive.
func AllActions() []Action {
	return []Action{
		LoaderToggle{On: true},
		CounterIncrease{},
		CounterUpdate{Value: 7},
		CounterFetchFromStorage{},
		CounterSaveToStorage{},
		CounterPullFromNetwork{},
		ThemeInitialize{},
		ThemeSetBlack{},
		ThemeSetWhite{},
	}
}

// ActionNames returns the name of every action case.
func ActionNames() []string {
	all := AllActions()
	names := make([]string, len(all))
	for i, a := range all {
		names[i] = a.Name()
	}
	return names
}
