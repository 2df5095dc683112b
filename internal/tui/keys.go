package tui

import "github.com/roach88/uniflow/internal/app"

// binding maps a key to an action or a navigation.
type binding struct {
	key  string
	help string
}

var footerBindings = []binding{
	{"+", "increase"},
	{"f", "fetch"},
	{"s", "save"},
	{"p", "pull"},
	{"t", "theme"},
	{"1-4", "screens"},
	{"esc", "back"},
	{"r", "root"},
	{"q", "quit"},
}

// actionKeys are the keys that dispatch a fixed action.
var actionKeys = map[string]app.Action{
	"+": app.CounterIncrease{},
	"f": app.CounterFetchFromStorage{},
	"s": app.CounterSaveToStorage{},
	"p": app.CounterPullFromNetwork{},
}

// screenKeys jump to a screen by position in the menu.
var screenKeys = map[string]app.Screen{
	"1": app.ScreenHome,
	"2": app.ScreenCounter,
	"3": app.ScreenSettings,
	"4": app.ScreenAbout,
}
