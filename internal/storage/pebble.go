package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

// Pebble stores settings in a pebble directory.
type Pebble struct {
	db *pebble.DB
}

// OpenPebble creates or opens the pebble directory at dir.
func OpenPebble(dir string) (*Pebble, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", dir, err)
	}
	return &Pebble{db: db}, nil
}

func (p *Pebble) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	val, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	defer closer.Close()
	// val is only valid until closer is closed.
	return append([]byte(nil), val...), true, nil
}

func (p *Pebble) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (p *Pebble) Close() error {
	return p.db.Close()
}
