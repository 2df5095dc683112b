package engine

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}

	first, err := uuid.Parse(gen.Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), first.Version())

	second, err := uuid.Parse(gen.Generate())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.LessOrEqual(t, first.String()[:8], second.String()[:8], "v7 tokens sort by creation time")
}

func TestUUIDv7Generator_ConcurrentTokensAreUnique(t *testing.T) {
	gen := UUIDv7Generator{}
	const workers, perWorker = 8, 64

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				token := gen.Generate()
				mu.Lock()
				seen[token] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestFixedGenerator(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{name: "in order then repeat last", tokens: []string{"a", "b"}, want: []string{"a", "b", "b", "b"}},
		{name: "single", tokens: []string{"only"}, want: []string{"only", "only"}},
		{name: "default", tokens: nil, want: []string{"flow-default", "flow-default"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewFixedGenerator(tt.tokens...)
			got := make([]string, len(tt.want))
			for i := range got {
				got[i] = gen.Generate()
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
