package app

import (
	"fmt"
	"strconv"
)

// Effect describes asynchronous work requested by a reducer. It carries
// only the data the handler needs.
//
//sumtype:decl
type Effect interface {
	Name() string
	String() string
	Subsystem() Subsystem
	sealedEffect()
}

//sumtype:decl
type LoaderEffect interface {
	Effect
	loaderEffect()
}

//sumtype:decl
type CounterEffect interface {
	Effect
	counterEffect()
}

//sumtype:decl
type ThemeEffect interface {
	Effect
	themeEffect()
}

type loaderEffectBase struct{}

func (loaderEffectBase) Subsystem() Subsystem { return SubsystemLoader }
func (loaderEffectBase) sealedEffect()        {}
func (loaderEffectBase) loaderEffect()        {}

type counterEffectBase struct{}

func (counterEffectBase) Subsystem() Subsystem { return SubsystemCounter }
func (counterEffectBase) sealedEffect()        {}
func (counterEffectBase) counterEffect()       {}

type themeEffectBase struct{}

func (themeEffectBase) Subsystem() Subsystem { return SubsystemTheme }
func (themeEffectBase) sealedEffect()        {}
func (themeEffectBase) themeEffect()         {}

// LoaderEmpty does nothing. No reducer produces it today.
type LoaderEmpty struct{ loaderEffectBase }

func (LoaderEmpty) Name() string     { return "loader.empty" }
func (e LoaderEmpty) String() string { return e.Name() }

// CounterFetch reads the counter from storage.
type CounterFetch struct{ counterEffectBase }

func (CounterFetch) Name() string     { return "counter.fetch" }
func (e CounterFetch) String() string { return e.Name() }

// CounterSave writes Value to storage.
type CounterSave struct {
	counterEffectBase
	Value int
}

func (CounterSave) Name() string     { return "counter.save" }
func (e CounterSave) String() string { return fmt.Sprintf("counter.save:%d", e.Value) }

// CounterPull reads a counter value from the network.
type CounterPull struct{ counterEffectBase }

func (CounterPull) Name() string     { return "counter.pull" }
func (e CounterPull) String() string { return e.Name() }

// ThemeFetch reads the theme flag from storage.
type ThemeFetch struct{ themeEffectBase }

func (ThemeFetch) Name() string     { return "theme.fetch" }
func (e ThemeFetch) String() string { return e.Name() }

// ThemeSave writes the theme flag to storage.
type ThemeSave struct {
	themeEffectBase
	Dark bool
}

func (ThemeSave) Name() string     { return "theme.save" }
func (e ThemeSave) String() string { return "theme.save:" + strconv.FormatBool(e.Dark) }
