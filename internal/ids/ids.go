// Package ids hands out record identifiers derived from the wall clock.
package ids

import (
	"strconv"
	"sync"
	"time"
)

// Generator returns decimal millisecond timestamps, bumped so that every
// value is strictly greater than the previous one.
type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// New constructs a generator backed by time.Now.
func New() *Generator {
	return &Generator{now: time.Now}
}

// NewWithClock constructs a generator reading time from clock.
func NewWithClock(clock func() time.Time) *Generator {
	return &Generator{now: clock}
}

// Next returns the next identifier.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return strconv.FormatInt(id, 10)
}
