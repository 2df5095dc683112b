package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/engine"
	"github.com/roach88/uniflow/internal/storage"
	"github.com/roach88/uniflow/internal/testutil"
)

// DefaultStepTimeout bounds how long a single step may take to go idle.
const DefaultStepTimeout = 5 * time.Second

// Run executes a scenario against a fresh store and returns the result.
//
// Each run gets its own in-memory storage, a scripted network and a
// sequence flow generator, so the trace is reproducible. An error is
// returned only when the scenario could not be executed; failed
// expectations are reported through Result.
func Run(ctx context.Context, sc *Scenario) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kv := storage.NewMemory()
	defer kv.Close()

	settings := storage.NewSettings(kv)
	if err := seedStorage(ctx, settings, sc.Storage); err != nil {
		return nil, fmt.Errorf("seed storage: %w", err)
	}

	prefix := sc.FlowPrefix
	if prefix == "" {
		prefix = "flow"
	}

	result := NewResult()
	st := app.NewStore(sc.Initial.State(), app.Services{
		Storage: settings,
		Network: testutil.NewFakeNetwork(sc.Network...),
	},
		engine.WithFlowGenerator(testutil.NewSequenceFlowGenerator(prefix)),
		engine.WithRecorder(result.record),
		engine.WithEffectTimeout(DefaultStepTimeout),
	)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- st.Run(runCtx) }()
	defer func() {
		st.Close()
		cancel()
		if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("store run ended with error", "scenario", sc.Name, "error", err)
		}
	}()

	slog.Debug("running scenario", "scenario", sc.Name, "steps", len(sc.Flow))

	for i, step := range sc.Flow {
		action, err := app.ParseAction(step.Dispatch)
		if err != nil {
			return nil, fmt.Errorf("flow[%d]: %w", i, err)
		}
		if !st.Send(action) {
			return nil, fmt.Errorf("flow[%d]: %w", i, engine.ErrStopped)
		}

		waitCtx, waitCancel := context.WithTimeout(ctx, DefaultStepTimeout)
		err = st.WaitIdle(waitCtx)
		waitCancel()
		if err != nil {
			return nil, fmt.Errorf("flow[%d] %s: wait for idle: %w", i, step.Dispatch, err)
		}

		if step.Expect != nil {
			for _, m := range step.Expect.Mismatches(st.State()) {
				result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Dispatch, m))
			}
		}
	}

	result.State = st.State()
	stored, err := readStored(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("read storage: %w", err)
	}
	result.Stored = stored

	for _, msg := range EvaluateAssertions(result, sc.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func seedStorage(ctx context.Context, s *storage.Settings, seed *StateSpec) error {
	if seed == nil {
		return nil
	}
	if seed.Counter != nil {
		if err := s.SetCounter(ctx, *seed.Counter); err != nil {
			return err
		}
	}
	if seed.IsDarkTheme != nil {
		if err := s.SetIsDarkTheme(ctx, *seed.IsDarkTheme); err != nil {
			return err
		}
	}
	return nil
}

func readStored(ctx context.Context, s *storage.Settings) (Stored, error) {
	counter, err := s.Counter(ctx)
	if err != nil {
		return Stored{}, err
	}
	dark, err := s.IsDarkTheme(ctx)
	if err != nil {
		return Stored{}, err
	}
	return Stored{Counter: counter, IsDarkTheme: dark}, nil
}
