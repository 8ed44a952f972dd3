package ids

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextUsesClock(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	g := NewWithClock(func() time.Time { return fixed })

	assert.Equal(t, "1700000000000", g.Next())
	assert.Equal(t, "1700000000001", g.Next())
	assert.Equal(t, "1700000000002", g.Next())
}

func TestNextNeverGoesBackwards(t *testing.T) {
	ts := []int64{500, 400, 900, 900}
	i := 0
	g := NewWithClock(func() time.Time {
		v := ts[i]
		i++
		return time.UnixMilli(v)
	})

	assert.Equal(t, []string{"500", "501", "900", "901"}, []string{g.Next(), g.Next(), g.Next(), g.Next()})
}

func TestNextConcurrentUnique(t *testing.T) {
	g := New()
	const workers, perWorker = 8, 200

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := g.Next()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
	for id := range seen {
		_, err := strconv.ParseInt(id, 10, 64)
		require.NoError(t, err)
	}
}
