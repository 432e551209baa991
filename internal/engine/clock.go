package engine

import (
	"time"

	"WallRig/internal/behaviour"
)

// Clock measures frame time. The first Tick reports a zero delta.
type Clock struct {
	now     func() time.Time
	start   time.Time
	last    time.Time
	started bool
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Tick returns seconds since the first tick and since the previous one.
func (c *Clock) Tick() behaviour.Time {
	now := c.now()
	if !c.started {
		c.start, c.last, c.started = now, now, true
		return behaviour.Time{}
	}
	t := behaviour.Time{
		Elapsed: now.Sub(c.start).Seconds(),
		Delta:   now.Sub(c.last).Seconds(),
	}
	c.last = now
	return t
}

func (c *Clock) Reset() { c.started = false }
