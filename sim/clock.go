package sim

import (
	"sync"
	"time"
)

// throttleSlice bounds how long Throttle sleeps between cancellation checks,
// so a stop request lands within this much real time even mid-delay.
const throttleSlice = 10 * time.Millisecond

// VirtualClock is the single source of truth for simulated elapsed time and
// for the wall-clock throttling policy. Simulated time advances by exactly
// the requested delay regardless of the speed multiplier; the multiplier only
// changes how long Throttle sleeps to realize that delay.
type VirtualClock struct {
	mu      sync.Mutex
	seconds float64
	speed   float64
}

func NewVirtualClock() *VirtualClock {
	return &VirtualClock{speed: 1}
}

// Now returns simulated elapsed seconds.
func (c *VirtualClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seconds
}

// Advance grows simulated time unconditionally. Negative deltas are ignored;
// simulated time is monotone.
func (c *VirtualClock) Advance(seconds float64) {
	if seconds <= 0 {
		return
	}
	c.mu.Lock()
	c.seconds += seconds
	c.mu.Unlock()
}

func (c *VirtualClock) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// SetSpeed changes the speed multiplier. Safe to call from an observer at any
// time; non-positive values are ignored.
func (c *VirtualClock) SetSpeed(mult float64) {
	if mult <= 0 {
		return
	}
	c.mu.Lock()
	c.speed = mult
	c.mu.Unlock()
}

func (c *VirtualClock) Reset() {
	c.mu.Lock()
	c.seconds = 0
	c.mu.Unlock()
}

// Throttle blocks the calling goroutine for seconds/speed of real time,
// waking at least every throttleSlice to honor cancellation. This is the only
// blocking call in the core. The speed multiplier is sampled once on entry;
// a change mid-throttle applies from the next delay.
func (c *VirtualClock) Throttle(seconds float64, cancel <-chan struct{}) {
	if seconds <= 0 {
		return
	}
	wall := time.Duration(seconds / c.Speed() * float64(time.Second))
	deadline := time.Now().Add(wall)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		if remaining > throttleSlice {
			remaining = throttleSlice
		}
		select {
		case <-cancel:
			return
		case <-time.After(remaining):
		}
	}
}
