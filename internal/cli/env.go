package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/uniflow/internal/app"
	"github.com/roach88/uniflow/internal/config"
	"github.com/roach88/uniflow/internal/engine"
	"github.com/roach88/uniflow/internal/journal"
	"github.com/roach88/uniflow/internal/network"
	"github.com/roach88/uniflow/internal/storage"
)

// environment is the set of collaborators a command runs the store with.
type environment struct {
	kv       storage.KV
	settings *storage.Settings
	services app.Services
}

// openEnvironment opens the configured storage backend and network source.
func openEnvironment(cfg config.Config) (*environment, error) {
	if cfg.Storage.Backend == storage.BackendSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	slog.Debug("opening storage", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
	kv, err := storage.Open(storage.Options{Backend: cfg.Storage.Backend, Path: cfg.Storage.Path})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	src, err := network.New(network.Options{
		Source:  cfg.Network.Source,
		URL:     cfg.Network.URL,
		Latency: cfg.Network.Latency,
	})
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("network: %w", err)
	}

	settings := storage.NewSettings(kv, storage.WithLatency(cfg.Storage.Latency))
	return &environment{
		kv:       kv,
		settings: settings,
		services: app.Services{Storage: settings, Network: src},
	}, nil
}

func (e *environment) Close() error {
	if err := e.kv.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}

// storeOptions maps the engine section of the config to store options.
func storeOptions(cfg config.Config, reg prometheus.Registerer) []engine.Option {
	opts := []engine.Option{
		engine.WithEffectTimeout(cfg.Engine.EffectTimeout),
		engine.WithMaxSteps(cfg.Engine.MaxSteps),
	}
	if reg != nil {
		opts = append(opts, engine.WithRegisterer(reg))
	}
	return opts
}

// openJournal opens the transition journal at path and returns the store
// options that append to it and continue its seq numbering. An empty path
// disables journaling and returns a nil journal.
func openJournal(ctx context.Context, path string) (*journal.Journal, []engine.Option, error) {
	if path == "" {
		return nil, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create journal directory: %w", err)
	}

	j, err := journal.Open(path)
	if err != nil {
		return nil, nil, err
	}
	last, err := j.LastSeq(ctx)
	if err != nil {
		j.Close()
		return nil, nil, err
	}

	slog.Debug("journal opened", "path", path, "last_seq", last)
	return j, []engine.Option{
		engine.WithClock(engine.NewClockAt(last)),
		engine.WithRecorder(j.Recorder(ctx)),
	}, nil
}

// journalErr reports the first failed append of j, if any.
func journalErr(j *journal.Journal) error {
	if j == nil {
		return nil
	}
	return j.Err()
}

// startStore runs st on its own goroutine. The returned stop func closes
// the store and waits for the loop to exit.
func startStore(ctx context.Context, st *app.Store) (stop func()) {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := st.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("store loop failed", "error", err)
		}
	}()
	return func() {
		st.Close()
		cancel()
		<-done
	}
}

// sendAndWait enqueues each action in turn and waits for the store to
// settle before the next one.
func sendAndWait(ctx context.Context, st *app.Store, actions []app.Action, timeout time.Duration) error {
	for _, a := range actions {
		if !st.Send(a) {
			return fmt.Errorf("%s: %w", a, engine.ErrStopped)
		}
		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		err := st.WaitIdle(waitCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s: wait for idle: %w", a, err)
		}
	}
	return nil
}

// newMetricsRegistry returns a registry carrying the Go and process
// collectors alongside whatever the store registers.
func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// serveMetrics exposes reg on addr/metrics until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		slog.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()
}

// idleTimeout bounds how long a command waits for one action to settle.
func idleTimeout(cfg config.Config) time.Duration {
	if cfg.Engine.EffectTimeout <= 0 {
		return time.Minute
	}
	return cfg.Engine.EffectTimeout + 5*time.Second
}
