package storage

import (
	"context"
	"errors"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
	// ErrCorruptValue is returned when a stored value cannot be decoded.
	ErrCorruptValue = errors.New("corrupt stored value")
	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("storage closed")
)

// KV is a key-value backend. Implementations are safe for concurrent use.
type KV interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the sqlite database file or the pebble directory.
	Path string
}

// Open creates the backend described by opts.
func Open(opts Options) (KV, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite backend: path is required")
		}
		return OpenSQLite(opts.Path)
	case BackendPebble:
		if opts.Path == "" {
			return nil, fmt.Errorf("pebble backend: path is required")
		}
		return OpenPebble(opts.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
