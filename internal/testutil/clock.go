package testutil

import (
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
)

// StagingClock drives the staging pipeline in tests. Advance also moves the
// miniredis clock, so lock TTLs and the sweep age threshold elapse together.
type StagingClock struct {
	mu  sync.Mutex
	now time.Time
	mr  *miniredis.Miniredis
}

// NewStagingClock starts at 2025-02-26 11:00:00 UTC. mr may be nil.
func NewStagingClock(mr *miniredis.Miniredis) *StagingClock {
	return &StagingClock{
		now: time.Date(2025, 2, 26, 11, 0, 0, 0, time.UTC),
		mr:  mr,
	}
}

func (c *StagingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *StagingClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()

	if c.mr != nil {
		c.mr.FastForward(d)
	}
}
