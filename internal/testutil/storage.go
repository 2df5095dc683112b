package testutil

import (
	"context"
	"fmt"
	"sync"
)

// FakeStorage is an in-memory settings store for handler tests. Reads can
// be held back with Block and every call can be made to fail with FailWith.
//
// Safe for concurrent use.
type FakeStorage struct {
	mu      sync.Mutex
	counter int
	dark    bool
	err     error
	gate    chan struct{}
	calls   []string
}

// NewFakeStorage creates a store holding counter and dark.
func NewFakeStorage(counter int, dark bool) *FakeStorage {
	return &FakeStorage{counter: counter, dark: dark}
}

// FailWith makes every subsequent call return err. Nil restores success.
func (f *FakeStorage) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Block holds every read until the returned release func is called.
func (f *FakeStorage) Block() (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Calls returns the operations performed so far, e.g. "set_counter:5".
func (f *FakeStorage) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Values returns the stored counter and theme flag.
func (f *FakeStorage) Values() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counter, f.dark
}

func (f *FakeStorage) wait(ctx context.Context) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *FakeStorage) Counter(ctx context.Context) (int, error) {
	if err := f.wait(ctx); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "counter")
	return f.counter, f.err
}

func (f *FakeStorage) SetCounter(ctx context.Context, v int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("set_counter:%d", v))
	if f.err != nil {
		return f.err
	}
	f.counter = v
	return nil
}

func (f *FakeStorage) IsDarkTheme(ctx context.Context) (bool, error) {
	if err := f.wait(ctx); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "is_dark_theme")
	return f.dark, f.err
}

func (f *FakeStorage) SetIsDarkTheme(ctx context.Context, dark bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("set_is_dark_theme:%t", dark))
	if f.err != nil {
		return f.err
	}
	f.dark = dark
	return nil
}

// FakeNetwork returns the queued values in order, then repeats the last.
type FakeNetwork struct {
	mu     sync.Mutex
	values []int
	err    error
}

// NewFakeNetwork creates a network returning values.
func NewFakeNetwork(values ...int) *FakeNetwork {
	return &FakeNetwork{values: values}
}

// FailWith makes every subsequent pull return err.
func (f *FakeNetwork) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *FakeNetwork) PullCounter(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	if len(f.values) == 0 {
		return 0, fmt.Errorf("fake network: no values")
	}
	v := f.values[0]
	if len(f.values) > 1 {
		f.values = f.values[1:]
	}
	return v, nil
}
