package app

import (
	"fmt"

	"github.com/roach88/uniflow/internal/canon"
)

// State is the application state. It is a plain value: the store copies it
// on every transition and only reducers produce new ones.
type State struct {
	IsLoading   bool `json:"is_loading" yaml:"is_loading"`
	IsDarkTheme bool `json:"is_dark_theme" yaml:"is_dark_theme"`
	Counter     int  `json:"counter" yaml:"counter"`
}

// Canonical implements canon.Marshaler.
func (s State) Canonical() any {
	return canon.Object{
		"counter":       s.Counter,
		"is_dark_theme": s.IsDarkTheme,
		"is_loading":    s.IsLoading,
	}
}

func (s State) String() string {
	return fmt.Sprintf("counter=%d loading=%t dark=%t", s.Counter, s.IsLoading, s.IsDarkTheme)
}
