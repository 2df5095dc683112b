package app

import (
	"context"
	"fmt"

	"github.com/roach88/uniflow/internal/engine"
)

// Dispatcher is the re-entry callback given to handlers.
type Dispatcher = engine.Dispatcher[Action]

// Handler routes effects to the handler of their subsystem.
type Handler struct {
	loader  LoaderHandler
	counter CounterHandler
	theme   ThemeHandler
}

// NewHandler builds the root handler over services.
func NewHandler(services Services) *Handler {
	return &Handler{
		loader:  LoaderHandler{},
		counter: CounterHandler{services: services},
		theme:   ThemeHandler{services: services},
	}
}

// Handle implements engine.Handler.
func (h *Handler) Handle(ctx context.Context, effect Effect, dispatch Dispatcher) error {
	switch e := effect.(type) {
	case LoaderEffect:
		return h.loader.Handle(ctx, e, dispatch)
	case CounterEffect:
		return h.counter.Handle(ctx, e, dispatch)
	case ThemeEffect:
		return h.theme.Handle(ctx, e, dispatch)
	default:
		panic(fmt.Sprintf("app: unhandled effect %T", effect))
	}
}

// LoaderHandler has nothing to do.
type LoaderHandler struct{}

func (LoaderHandler) Handle(ctx context.Context, effect LoaderEffect, dispatch Dispatcher) error {
	switch effect.(type) {
	case LoaderEmpty:
		return nil
	default:
		panic(fmt.Sprintf("app: unhandled loader effect %T", effect))
	}
}

// CounterHandler talks to storage and network on behalf of the counter.
//
// Loading is always switched off again, even when the read fails.
type CounterHandler struct {
	services Services
}

func (h CounterHandler) Handle(ctx context.Context, effect CounterEffect, dispatch Dispatcher) error {
	switch e := effect.(type) {
	case CounterFetch:
		return h.load(dispatch, func() (int, error) {
			v, err := h.services.Storage.Counter(ctx)
			if err != nil {
				return 0, fmt.Errorf("read counter: %w", err)
			}
			return v, nil
		})
	case CounterPull:
		return h.load(dispatch, func() (int, error) {
			v, err := h.services.Network.PullCounter(ctx)
			if err != nil {
				return 0, fmt.Errorf("pull counter: %w", err)
			}
			return v, nil
		})
	case CounterSave:
		if err := h.services.Storage.SetCounter(ctx, e.Value); err != nil {
			return fmt.Errorf("write counter: %w", err)
		}
		return nil
	default:
		panic(fmt.Sprintf("app: unhandled counter effect %T", effect))
	}
}

func (h CounterHandler) load(dispatch Dispatcher, read func() (int, error)) error {
	dispatch(LoaderToggle{On: true})
	defer dispatch(LoaderToggle{On: false})

	v, err := read()
	if err != nil {
		return err
	}
	dispatch(CounterUpdate{Value: v})
	return nil
}

// ThemeHandler persists and restores the theme flag.
type ThemeHandler struct {
	services Services
}

func (h ThemeHandler) Handle(ctx context.Context, effect ThemeEffect, dispatch Dispatcher) error {
	switch e := effect.(type) {
	case ThemeFetch:
		dark, err := h.services.Storage.IsDarkTheme(ctx)
		if err != nil {
			return fmt.Errorf("read theme: %w", err)
		}
		if dark {
			dispatch(ThemeSetBlack{})
		} else {
			dispatch(ThemeSetWhite{})
		}
		return nil
	case ThemeSave:
		if err := h.services.Storage.SetIsDarkTheme(ctx, e.Dark); err != nil {
			return fmt.Errorf("write theme: %w", err)
		}
		return nil
	default:
		panic(fmt.Sprintf("app: unhandled theme effect %T", effect))
	}
}
