package journal

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/canon"
	"github.com/roach88/uniflow/internal/engine"
)

// Entry is one journaled transition.
type Entry struct {
	Seq     int64     `json:"seq"`
	Flow    string    `json:"flow"`
	Action  string    `json:"action"`
	Effects []string  `json:"effects"`
	Prev    app.State `json:"prev"`
	State   app.State `json:"state"`
}

// FromTransition converts a store transition. It fails when the transition
// was not produced by an app.Store.
func FromTransition(t engine.Transition) (Entry, error) {
	prev, ok := t.Prev.(app.State)
	if !ok {
		return Entry{}, fmt.Errorf("transition %d: prev is %T, not app.State", t.Seq, t.Prev)
	}
	state, ok := t.State.(app.State)
	if !ok {
		return Entry{}, fmt.Errorf("transition %d: state is %T, not app.State", t.Seq, t.State)
	}
	effects := t.Effects
	if effects == nil {
		effects = []string{}
	}
	return Entry{
		Seq:     t.Seq,
		Flow:    t.Flow,
		Action:  t.Action,
		Effects: effects,
		Prev:    prev,
		State:   state,
	}, nil
}

func marshalEffects(effects []string) (string, error) {
	if effects == nil {
		effects = []string{}
	}
	data, err := canon.Marshal(effects)
	if err != nil {
		return "", fmt.Errorf("marshal effects: %w", err)
	}
	return string(data), nil
}

func marshalState(s app.State) (string, error) {
	data, err := canon.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	return string(data), nil
}

func unmarshalEffects(data string) ([]string, error) {
	effects := []string{}
	if err := json.Unmarshal([]byte(data), &effects); err != nil {
		return nil, fmt.Errorf("unmarshal effects: %w", err)
	}
	return effects, nil
}

func unmarshalState(data string) (app.State, error) {
	var s app.State
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return app.State{}, fmt.Errorf("unmarshal state: %w", err)
	}
	return s, nil
}
