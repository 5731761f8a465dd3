package repo

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDGeneratorStrictlyIncreasing(t *testing.T) {
	g := NewIDGenerator(func() time.Time { return fixedNow })

	seen := make(map[int64]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.Next()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50)
	assert.Equal(t, fixedNow.UnixMilli()+50, g.Next())
}

func TestIDGeneratorObserve(t *testing.T) {
	g := NewIDGenerator(func() time.Time { return fixedNow })
	g.Observe(fixedNow.UnixMilli() + 100)
	assert.Equal(t, fixedNow.UnixMilli()+101, g.Next())
}
