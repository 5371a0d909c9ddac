package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_StrictlyIncreasing(t *testing.T) {
	fixed := time.UnixMilli(5_000)
	c := NewClock(func() time.Time { return fixed })

	assert.Equal(t, int64(5_000), c.Next())
	assert.Equal(t, int64(5_001), c.Next())

	fixed = time.UnixMilli(4_000) // wall clock stepped back
	assert.Equal(t, int64(5_002), c.Next())

	fixed = time.UnixMilli(9_000)
	assert.Equal(t, int64(9_000), c.Next())
}

func TestClock_Concurrent(t *testing.T) {
	c := NewClock(nil)
	const n = 200
	seen := make(chan int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.Next()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]struct{}, n)
	for v := range seen {
		unique[v] = struct{}{}
	}
	assert.Len(t, unique, n)
}
