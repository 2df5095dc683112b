package app

import "fmt"

// Screen is a navigation destination of the demo application.
type Screen string

const (
	ScreenHome     Screen = "home"
	ScreenCounter  Screen = "counter"
	ScreenSettings Screen = "settings"
	ScreenAbout    Screen = "about"
)

// Screens lists every screen in menu order.
var Screens = []Screen{ScreenHome, ScreenCounter, ScreenSettings, ScreenAbout}

func (s Screen) String() string { return string(s) }

// Title is the heading rendered for the screen.
func (s Screen) Title() string {
	switch s {
	case ScreenHome:
		return "Home"
	case ScreenCounter:
		return "Counter"
	case ScreenSettings:
		return "Settings"
	case ScreenAbout:
		return "About"
	default:
		return string(s)
	}
}

// ParseScreen returns the screen named s.
func ParseScreen(s string) (Screen, error) {
	for _, sc := range Screens {
		if string(sc) == s {
			return sc, nil
		}
	}
	names := make([]string, len(Screens))
	for i, sc := range Screens {
		names[i] = string(sc)
	}
	if suggestion := Suggest(s, names); suggestion != "" {
		return "", fmt.Errorf("unknown screen %q (did you mean %q?)", s, suggestion)
	}
	return "", fmt.Errorf("unknown screen %q", s)
}
