package epoch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvance_StrictlyGreater(t *testing.T) {
	tr := NewTracker()

	assert.True(t, tr.Advance(5))
	assert.False(t, tr.Advance(5))
	assert.False(t, tr.Advance(4))
	assert.True(t, tr.Advance(6))

	current, seen := tr.Current()
	assert.True(t, seen)
	assert.Equal(t, int64(6), current)
}

func TestAdvance_FiresOnceAcrossGoroutines(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	var mu sync.Mutex
	advances := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.Advance(1) {
				mu.Lock()
				advances++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, advances)
}
