package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Setting keys.
const (
	KeyCounter     = "counter"
	KeyIsDarkTheme = "is_dark_theme"
)

// Settings exposes the typed application settings over a KV backend.
// Values are stored as their decimal or boolean text form.
type Settings struct {
	kv      KV
	latency time.Duration
}

// SettingsOption configures Settings.
type SettingsOption func(*Settings)

// WithLatency delays every operation by d, imitating a slow device. The
// delay is cut short when the context is cancelled.
func WithLatency(d time.Duration) SettingsOption {
	return func(s *Settings) { s.latency = d }
}

// NewSettings wraps kv.
func NewSettings(kv KV, opts ...SettingsOption) *Settings {
	s := &Settings{kv: kv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// KV returns the underlying backend.
func (s *Settings) KV() KV { return s.kv }

func (s *Settings) Counter(ctx context.Context) (int, error) {
	raw, ok, err := s.get(ctx, KeyCounter)
	if err != nil || !ok {
		return 0, err
	}
	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrCorruptValue, KeyCounter, raw)
	}
	return v, nil
}

func (s *Settings) SetCounter(ctx context.Context, v int) error {
	return s.set(ctx, KeyCounter, strconv.Itoa(v))
}

func (s *Settings) IsDarkTheme(ctx context.Context) (bool, error) {
	raw, ok, err := s.get(ctx, KeyIsDarkTheme)
	if err != nil || !ok {
		return false, err
	}
	v, err := strconv.ParseBool(string(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrCorruptValue, KeyIsDarkTheme, raw)
	}
	return v, nil
}

func (s *Settings) SetIsDarkTheme(ctx context.Context, dark bool) error {
	return s.set(ctx, KeyIsDarkTheme, strconv.FormatBool(dark))
}

func (s *Settings) get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.delay(ctx); err != nil {
		return nil, false, err
	}
	return s.kv.Get(ctx, key)
}

func (s *Settings) set(ctx context.Context, key, value string) error {
	if err := s.delay(ctx); err != nil {
		return err
	}
	return s.kv.Set(ctx, key, []byte(value))
}

func (s *Settings) delay(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
