package storage

import (
	"context"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Memory is an in-process backend.
type Memory struct {
	values *xsync.MapOf[string, []byte]
	closed atomic.Bool
}

// NewMemory creates an empty memory backend.
func NewMemory() *Memory {
	return &Memory{values: xsync.NewMapOf[string, []byte]()}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.closed.Load() {
		return nil, false, ErrClosed
	}
	v, ok := m.values.Load(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.values.Store(key, append([]byte(nil), value...))
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	return m.values.Size()
}

func (m *Memory) Close() error {
	m.closed.Store(true)
	return nil
}
