package app

import "context"

// Storage persists the named scalar settings. Implementations must be safe
// for concurrent use.
type Storage interface {
	Counter(ctx context.Context) (int, error)
	SetCounter(ctx context.Context, v int) error
	IsDarkTheme(ctx context.Context) (bool, error)
	SetIsDarkTheme(ctx context.Context, dark bool) error
}

// Network pulls counter values from a remote source. Implementations must
// be safe for concurrent use.
type Network interface {
	PullCounter(ctx context.Context) (int, error)
}

// Services is the capability container handed to every handler.
type Services struct {
	Storage Storage
	Network Network
}
