package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Defaults(t *testing.T) {
	ctx := context.Background()
	s := NewSettings(NewMemory())

	counter, err := s.Counter(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, counter)

	dark, err := s.IsDarkTheme(ctx)
	require.NoError(t, err)
	assert.False(t, dark)
}

func TestSettings_RoundTripEveryBackend(t *testing.T) {
	ctx := context.Background()

	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			s := NewSettings(kv)

			require.NoError(t, s.SetCounter(ctx, -17))
			require.NoError(t, s.SetIsDarkTheme(ctx, true))

			counter, err := s.Counter(ctx)
			require.NoError(t, err)
			assert.Equal(t, -17, counter)

			dark, err := s.IsDarkTheme(ctx)
			require.NoError(t, err)
			assert.True(t, dark)

			raw, _, err := kv.Get(ctx, KeyCounter)
			require.NoError(t, err)
			assert.Equal(t, "-17", string(raw), "counter is stored as decimal text")
		})
	}
}

func TestSettings_CorruptValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Set(ctx, KeyCounter, []byte("many")))
	require.NoError(t, kv.Set(ctx, KeyIsDarkTheme, []byte("dusk")))
	s := NewSettings(kv)

	_, err := s.Counter(ctx)
	assert.ErrorIs(t, err, ErrCorruptValue)

	_, err = s.IsDarkTheme(ctx)
	assert.ErrorIs(t, err, ErrCorruptValue)
}

func TestSettings_LatencyRespectsContext(t *testing.T) {
	s := NewSettings(NewMemory(), WithLatency(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Counter(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, s.SetCounter(ctx, 1), context.DeadlineExceeded)
}

func TestSettings_LatencyDelays(t *testing.T) {
	s := NewSettings(NewMemory(), WithLatency(15*time.Millisecond))

	start := time.Now()
	require.NoError(t, s.SetIsDarkTheme(context.Background(), true))
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestSettings_SQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, NewSettings(db).SetCounter(ctx, 99))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	counter, err := NewSettings(db).Counter(ctx)
	require.NoError(t, err)
	assert.Equal(t, 99, counter)
}
