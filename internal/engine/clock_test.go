package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock(t *testing.T) {
	c := NewClock()
	assert.Zero(t, c.Current())

	for want := int64(1); want <= 3; want++ {
		assert.Equal(t, want, c.Next())
	}
	assert.Equal(t, int64(3), c.Current())
}

func TestClock_ResumesAfterJournal(t *testing.T) {
	c := NewClockAt(41)
	assert.Equal(t, int64(41), c.Current())
	assert.Equal(t, int64(42), c.Next())
}

func TestClock_ConcurrentNextIsGapless(t *testing.T) {
	c := NewClock()
	const workers, perWorker = 16, 200

	var (
		mu  sync.Mutex
		got = make([]bool, workers*perWorker+1)
		wg  sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				seq := c.Next()
				mu.Lock()
				got[seq] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for seq := 1; seq < len(got); seq++ {
		assert.True(t, got[seq], "seq %d never issued", seq)
	}
	assert.Equal(t, int64(workers*perWorker), c.Current())
}
