package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeNow returns a time source stepping through the given instants.
func fakeNow(instants ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := instants[i]
		if i < len(instants)-1 {
			i++
		}
		return t
	}
}

func TestClockFirstTickEstablishesBaseline(t *testing.T) {
	base := time.Unix(0, 0)
	c := NewClock(fakeNow(base))

	raw, smoothed, elapsed := c.Tick()
	assert.Zero(t, raw)
	assert.Zero(t, smoothed)
	assert.Zero(t, elapsed)
}

func TestClockSmoothingBlend(t *testing.T) {
	base := time.Unix(0, 0)
	c := NewClock(fakeNow(
		base,
		base.Add(10*time.Millisecond),
		base.Add(20*time.Millisecond),
		base.Add(30*time.Millisecond),
	))

	c.Tick()

	raw, smoothed, elapsed := c.Tick()
	assert.InDelta(t, 10, raw, 1e-9)
	assert.InDelta(t, 0.2*10, smoothed, 1e-9)
	assert.InDelta(t, 0.010, elapsed, 1e-9)

	_, smoothed, _ = c.Tick()
	assert.InDelta(t, 0.2*10+0.8*2, smoothed, 1e-9)

	_, smoothed, elapsed = c.Tick()
	assert.InDelta(t, 0.2*10+0.8*3.6, smoothed, 1e-9)
	assert.InDelta(t, 0.030, elapsed, 1e-9)
	assert.InDelta(t, c.SmoothedMs(), smoothed, 1e-12)
}

func TestClockUnevenFrames(t *testing.T) {
	base := time.Unix(0, 0)
	c := NewClock(fakeNow(
		base,
		base.Add(100*time.Millisecond),
		base.Add(110*time.Millisecond),
	))

	c.Tick()
	_, smoothed, _ := c.Tick()
	assert.InDelta(t, 20, smoothed, 1e-9)

	// A fast frame after a slow one pulls the smoothed value down slowly.
	raw, smoothed, _ := c.Tick()
	assert.InDelta(t, 10, raw, 1e-9)
	assert.InDelta(t, 0.2*10+0.8*20, smoothed, 1e-9)
}
