// Package storage persists the application settings.
//
// A KV backend stores opaque values under string keys. Three backends are
// available:
//
//   - memory: process-local, for tests and throwaway runs
//   - sqlite: a single settings table, schema managed by embedded migrations
//   - pebble: an LSM key-value directory
//
// Settings sits on top of any backend and exposes the typed named scalars
// the handlers need ("counter" and "is_dark_theme"). Missing keys read as the
// zero value.
package storage
