package app

import "fmt"

// Reducer is the root reducer. It routes each action to the reducer of its
// subsystem and lifts the resulting effects, keeping their order.
type Reducer struct{}

// Reduce implements engine.Reducer.
func (Reducer) Reduce(state State, action Action) (State, []Effect) {
	switch a := action.(type) {
	case LoaderAction:
		return lift(reduceLoader(state, a))
	case CounterAction:
		return lift(reduceCounter(state, a))
	case ThemeAction:
		return lift(reduceTheme(state, a))
	default:
		panic(fmt.Sprintf("app: unhandled action %T", action))
	}
}

func lift[E Effect](state State, effects []E) (State, []Effect) {
	if len(effects) == 0 {
		return state, nil
	}
	out := make([]Effect, len(effects))
	for i, e := range effects {
		out[i] = e
	}
	return state, out
}

func reduceLoader(state State, action LoaderAction) (State, []LoaderEffect) {
	switch a := action.(type) {
	case LoaderToggle:
		state.IsLoading = a.On
		return state, nil
	default:
		panic(fmt.Sprintf("app: unhandled loader action %T", action))
	}
}

func reduceCounter(state State, action CounterAction) (State, []CounterEffect) {
	switch a := action.(type) {
	case CounterIncrease:
		state.Counter++
		return state, nil
	case CounterUpdate:
		state.Counter = a.Value
		return state, nil
	case CounterFetchFromStorage:
		return state, []CounterEffect{CounterFetch{}}
	case CounterSaveToStorage:
		return state, []CounterEffect{CounterSave{Value: state.Counter}}
	case CounterPullFromNetwork:
		return state, []CounterEffect{CounterPull{}}
	default:
		panic(fmt.Sprintf("app: unhandled counter action %T", action))
	}
}

func reduceTheme(state State, action ThemeAction) (State, []ThemeEffect) {
	switch action.(type) {
	case ThemeInitialize:
		return state, []ThemeEffect{ThemeFetch{}}
	case ThemeSetBlack:
		state.IsDarkTheme = true
		return state, []ThemeEffect{ThemeSave{Dark: true}}
	case ThemeSetWhite:
		state.IsDarkTheme = false
		return state, []ThemeEffect{ThemeSave{Dark: false}}
	default:
		panic(fmt.Sprintf("app: unhandled theme action %T", action))
	}
}
