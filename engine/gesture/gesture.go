// Package gesture turns raw per-pointer position samples into aggregated
// pan + scale manipulation deltas with post-release inertial continuation.
//
// One Context serves one camera. Pointers are registered with AddPointer,
// fed position samples with ProcessPointerFrame, and deregistered with
// RemovePointer. Frames for unregistered pointers are ignored, which is how
// GUI-captured pointers are kept away from the camera. After the last
// pointer is released the context keeps emitting decaying deltas from
// ProcessInertia until the motion falls below the rest threshold.
package gesture

import (
	"sync"

	"github.com/chewxy/math32"
)

// Delta is the aggregated manipulation output for one processed frame:
// a 2D pan in pointer units plus a pinch scale factor (1 = no scaling).
type Delta struct {
	TranslationX float32
	TranslationY float32
	Scale        float32
}

// OutputFunc receives one Delta per processed pointer frame or inertia tick.
type OutputFunc func(Delta)

// Context is a stateful multi-pointer manipulation tracker.
type Context interface {
	// AddPointer registers a pointer for manipulation tracking. Frames for
	// pointers that were never registered are dropped.
	//
	// Parameters:
	//   - id: platform pointer identifier
	AddPointer(id uint32)

	// RemovePointer deregisters a pointer. When the last active pointer is
	// removed the context enters the inertia phase, seeded with the current
	// filtered velocity. Removing an unknown pointer is a no-op.
	//
	// Parameters:
	//   - id: platform pointer identifier
	RemovePointer(id uint32)

	// ProcessPointerFrame feeds one position sample for a registered pointer
	// and delivers exactly one aggregated Delta to the output callback.
	// The first sample after registration establishes the reference position
	// and produces no output.
	//
	// Parameters:
	//   - id: platform pointer identifier
	//   - x, y: pointer position in render-target pixel units
	ProcessPointerFrame(id uint32, x, y float32)

	// ProcessInertia advances post-release momentum by one tick. Must be
	// called once per frame unconditionally; it is a no-op while pointers
	// are down or once motion has decayed to rest.
	ProcessInertia()

	// SetOutputCallback registers the delta consumer. The callback is never
	// invoked re-entrantly: pointer or inertia processing triggered from
	// inside the callback is dropped.
	//
	// Parameters:
	//   - cb: the delta consumer, or nil to disable output
	SetOutputCallback(cb OutputFunc)

	// ActivePointers returns the number of currently registered pointers.
	//
	// Returns:
	//   - int: registered pointer count
	ActivePointers() int
}

// pointerState tracks the last known position of one registered pointer.
type pointerState struct {
	x, y      float32
	hasSample bool
}

type contextImpl struct {
	mu       *sync.Mutex
	pointers map[uint32]*pointerState

	output   OutputFunc
	emitting bool

	// Exponentially filtered per-frame velocity, captured as the inertia
	// seed when the last pointer lifts.
	velX, velY float32
	velScale   float32

	inertiaActive bool
	inertiaX      float32
	inertiaY      float32
	inertiaScale  float32

	velocityBlend float32
	decay         float32
	restThreshold float32
}

var _ Context = &contextImpl{}

// NewContext creates a manipulation context with the default filter and
// inertia tuning.
//
// Parameters:
//   - options: functional options to configure the context
//
// Returns:
//   - Context: the newly created context
func NewContext(options ...ContextOption) Context {
	c := &contextImpl{
		mu:            &sync.Mutex{},
		pointers:      make(map[uint32]*pointerState),
		velScale:      1,
		inertiaScale:  1,
		velocityBlend: 0.4,
		decay:         0.95,
		restThreshold: 0.01,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *contextImpl) SetOutputCallback(cb OutputFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.output = cb
}

func (c *contextImpl) ActivePointers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pointers)
}

func (c *contextImpl) AddPointer(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pointers[id]; ok {
		return
	}
	c.pointers[id] = &pointerState{}
	// New contact cancels any momentum still playing out.
	c.inertiaActive = false
	c.velX, c.velY, c.velScale = 0, 0, 1
}

func (c *contextImpl) RemovePointer(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pointers[id]; !ok {
		return
	}
	delete(c.pointers, id)
	if len(c.pointers) > 0 {
		return
	}

	// Last pointer lifted: seed inertia with the filtered velocity.
	c.inertiaX = c.velX
	c.inertiaY = c.velY
	c.inertiaScale = c.velScale
	c.inertiaActive = !c.atRest(c.inertiaX, c.inertiaY, c.inertiaScale)
}

func (c *contextImpl) ProcessPointerFrame(id uint32, x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.emitting {
		return
	}
	p, ok := c.pointers[id]
	if !ok {
		return
	}

	if !p.hasSample {
		p.x, p.y = x, y
		p.hasSample = true
		return
	}

	prevCx, prevCy, prevSpan, n := c.aggregate()
	p.x, p.y = x, y
	newCx, newCy, newSpan, _ := c.aggregate()

	d := Delta{
		TranslationX: newCx - prevCx,
		TranslationY: newCy - prevCy,
		Scale:        1,
	}
	if n >= 2 && prevSpan > 1e-6 {
		d.Scale = newSpan / prevSpan
	}

	b := c.velocityBlend
	c.velX = b*d.TranslationX + (1-b)*c.velX
	c.velY = b*d.TranslationY + (1-b)*c.velY
	c.velScale = b*d.Scale + (1-b)*c.velScale

	c.emit(d)
}

func (c *contextImpl) ProcessInertia() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.emitting || len(c.pointers) > 0 || !c.inertiaActive {
		return
	}
	if c.atRest(c.inertiaX, c.inertiaY, c.inertiaScale) {
		c.inertiaActive = false
		return
	}

	c.emit(Delta{
		TranslationX: c.inertiaX,
		TranslationY: c.inertiaY,
		Scale:        c.inertiaScale,
	})

	c.inertiaX *= c.decay
	c.inertiaY *= c.decay
	c.inertiaScale = 1 + (c.inertiaScale-1)*c.decay
}

// aggregate computes the centroid and span of all sampled pointers.
// Span is the mean distance from the centroid, used for pinch scaling.
// Caller must hold the mutex.
func (c *contextImpl) aggregate() (cx, cy, span float32, n int) {
	for _, p := range c.pointers {
		if !p.hasSample {
			continue
		}
		cx += p.x
		cy += p.y
		n++
	}
	if n == 0 {
		return 0, 0, 0, 0
	}
	cx /= float32(n)
	cy /= float32(n)
	for _, p := range c.pointers {
		if !p.hasSample {
			continue
		}
		span += math32.Hypot(p.x-cx, p.y-cy)
	}
	span /= float32(n)
	return cx, cy, span, n
}

// atRest reports whether the given motion is below the stopping threshold.
// Caller must hold the mutex.
func (c *contextImpl) atRest(x, y, scale float32) bool {
	return math32.Hypot(x, y) < c.restThreshold && math32.Abs(scale-1) < 1e-3
}

// emit delivers one delta to the output callback with the mutex released.
// The emitting flag makes delivery non-re-entrant: gesture processing
// triggered from inside the callback is dropped.
// Caller must hold the mutex.
func (c *contextImpl) emit(d Delta) {
	if c.output == nil {
		return
	}
	cb := c.output
	c.emitting = true
	c.mu.Unlock()
	cb(d)
	c.mu.Lock()
	c.emitting = false
}
