package app

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	// ErrUnknownAction is returned for names that match no action case.
	ErrUnknownAction = errors.New("unknown action")
	// ErrBadArgument is returned when an action argument is missing,
	// unexpected or malformed.
	ErrBadArgument = errors.New("bad action argument")
)

// maxSuggestDistance bounds how far a typo may be from a real name.
const maxSuggestDistance = 4

// ParseAction parses the textual form "name[:arg]", for example
// "counter.update:5" or "loader.toggle:true".
func ParseAction(s string) (Action, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(s), ":")

	noArg := func(a Action) (Action, error) {
		if hasArg {
			return nil, fmt.Errorf("%w: %s takes no argument", ErrBadArgument, name)
		}
		return a, nil
	}

	switch name {
	case "loader.toggle":
		if !hasArg {
			return nil, fmt.Errorf("%w: %s needs true or false", ErrBadArgument, name)
		}
		on, err := strconv.ParseBool(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a bool", ErrBadArgument, name, arg)
		}
		return LoaderToggle{On: on}, nil
	case "counter.increase":
		return noArg(CounterIncrease{})
	case "counter.update":
		if !hasArg {
			return nil, fmt.Errorf("%w: %s needs an integer", ErrBadArgument, name)
		}
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not an integer", ErrBadArgument, name, arg)
		}
		return CounterUpdate{Value: v}, nil
	case "counter.fetch_from_storage":
		return noArg(CounterFetchFromStorage{})
	case "counter.save_to_storage":
		return noArg(CounterSaveToStorage{})
	case "counter.pull_from_network":
		return noArg(CounterPullFromNetwork{})
	case "theme.initialize":
		return noArg(ThemeInitialize{})
	case "theme.set_black":
		return noArg(ThemeSetBlack{})
	case "theme.set_white":
		return noArg(ThemeSetWhite{})
	}

	if suggestion := Suggest(name, ActionNames()); suggestion != "" {
		return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownAction, name, suggestion)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownAction, name)
}

// ParseActions parses every element of lines, stopping at the first error.
func ParseActions(lines []string) ([]Action, error) {
	out := make([]Action, 0, len(lines))
	for i, line := range lines {
		a, err := ParseAction(line)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Suggest returns the candidate closest to input by edit distance, or ""
// when nothing is close enough. Ties go to the lexically smaller name.
func Suggest(input string, candidates []string) string {
	if input == "" {
		return ""
	}
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	best, bestDist := "", maxSuggestDistance+1
	for _, c := range sorted {
		d := levenshtein.ComputeDistance(input, c)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
