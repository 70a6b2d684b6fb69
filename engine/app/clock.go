package app

import "time"

// frameSmoothing is the exponential blend applied to raw frame times: each
// frame contributes 20% against 80% of the running value.
const frameSmoothing = 0.2

// Clock measures per-frame wall time and maintains the exponentially
// smoothed frame time the FPS readout and summary statistics are built on.
type Clock struct {
	// now is injectable for tests; defaults to time.Now.
	now func() time.Time

	start      time.Time
	last       time.Time
	started    bool
	smoothedMs float64
}

// NewClock creates a Clock reading the given time source.
//
// Parameters:
//   - now: time source, nil for time.Now
//
// Returns:
//   - *Clock: the newly created clock
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Tick advances the clock by one frame. The first call establishes the run
// baseline and reports zeros.
//
// Returns:
//   - rawMs: wall time since the previous Tick in milliseconds
//   - smoothedMs: exponentially smoothed frame time in milliseconds
//   - elapsedSeconds: wall time since the first Tick
func (c *Clock) Tick() (rawMs, smoothedMs, elapsedSeconds float64) {
	t := c.now()
	if !c.started {
		c.started = true
		c.start = t
		c.last = t
		return 0, 0, 0
	}

	rawMs = float64(t.Sub(c.last)) / float64(time.Millisecond)
	c.last = t
	c.smoothedMs = frameSmoothing*rawMs + (1-frameSmoothing)*c.smoothedMs
	return rawMs, c.smoothedMs, t.Sub(c.start).Seconds()
}

// SmoothedMs returns the current smoothed frame time without advancing the
// clock.
func (c *Clock) SmoothedMs() float64 {
	return c.smoothedMs
}
