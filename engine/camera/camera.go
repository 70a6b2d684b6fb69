// Package camera provides the orbit camera driven by pointer gestures.
//
// The camera is parameterized by a look-at center, an orbit radius clamped to
// a configured range, and two spherical angles. Every mutator recomputes the
// derived eye position and matrices before returning, so no stale derived
// state is ever observable. Pointer input is forwarded to an embedded gesture
// context whose output is applied back onto the orbit angles and radius.
package camera

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/meteor/common"
	"github.com/Carmen-Shannon/meteor/engine/gesture"
)

// manipulationRate converts gesture translation units (render-target pixels)
// into orbit radians. Tuned against the pointer units the window reports.
const manipulationRate = 0.0007

// latitudeLimit keeps the latitudinal angle away from the pole singularity:
// 1% of pi from each pole.
var latitudeLimit = float32(math32.Pi * 0.01)

// Camera is the orbit camera contract consumed by the frame scheduler and
// the render workloads.
type Camera interface {
	// SetView establishes the orbit center and the valid radius/angle ranges,
	// then recomputes the derived matrices. Inputs are caller-validated.
	//
	// Parameters:
	//   - centerX, centerY, centerZ: world-space orbit center
	//   - radius: initial orbit radius
	//   - minRadius, maxRadius: inclusive radius clamp range
	//   - longAngle: longitudinal angle in radians
	//   - latAngle: latitudinal angle in radians
	SetView(centerX, centerY, centerZ, radius, minRadius, maxRadius, longAngle, latAngle float32)

	// SetProjection recomputes the projection matrix. When aspect > 1 the
	// vertical FOV equals fov; otherwise it is widened by dividing by aspect.
	// This keeps the horizontal framing stable across window shapes.
	//
	// Parameters:
	//   - fov: field of view in radians
	//   - aspect: render-target aspect ratio (width/height)
	SetProjection(fov, aspect float32)

	// OrbitLongitude adds delta to the longitudinal angle.
	//
	// Parameters:
	//   - delta: angle increment in radians
	OrbitLongitude(delta float32)

	// OrbitLatitude adds delta to the latitudinal angle, clamped away from
	// the poles by 1% of pi.
	//
	// Parameters:
	//   - delta: angle increment in radians
	OrbitLatitude(delta float32)

	// ZoomByDelta adds delta to the radius, clamped to [minRadius, maxRadius].
	//
	// Parameters:
	//   - delta: radius increment
	ZoomByDelta(delta float32)

	// ZoomByScale multiplies the radius by factor, clamped to
	// [minRadius, maxRadius].
	//
	// Parameters:
	//   - factor: radius multiplier
	ZoomByScale(factor float32)

	// AddPointer registers a pointer with the gesture context.
	AddPointer(id uint32)

	// RemovePointer deregisters a pointer from the gesture context.
	RemovePointer(id uint32)

	// ProcessPointerFrame feeds one pointer position sample to the gesture
	// context; resulting manipulation deltas are applied to the camera
	// synchronously before this call returns.
	//
	// Parameters:
	//   - id: platform pointer identifier
	//   - x, y: pointer position in render-target pixel units
	ProcessPointerFrame(id uint32, x, y float32)

	// ProcessInertia advances post-release gesture momentum by one tick.
	// Must be called once per frame even when no pointers are active.
	ProcessInertia()

	// Radius returns the current orbit radius.
	Radius() float32

	// Longitude returns the current longitudinal angle in radians.
	Longitude() float32

	// Latitude returns the current latitudinal angle in radians.
	Latitude() float32

	// Eye returns the derived world-space eye position.
	//
	// Returns:
	//   - x, y, z: eye position
	Eye() (x, y, z float32)

	// ViewMatrix returns the current 4x4 view matrix (column-major).
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix (column-major).
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view (column-major).
	ViewProjectionMatrix() [16]float32
}

type orbitCameraImpl struct {
	mu *sync.Mutex

	center [3]float32
	up     [3]float32

	radius    float32
	minRadius float32
	maxRadius float32
	longAngle float32
	latAngle  float32

	eye                  [3]float32
	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	// ctx is created once in the constructor and never replaced, so the
	// pointer-forwarding methods read it without holding the mutex. Holding
	// the camera mutex across gesture calls would deadlock: the gesture
	// output callback re-enters the orbit mutators.
	ctx gesture.Context
}

var _ Camera = &orbitCameraImpl{}

// NewOrbitCamera creates an orbit camera with a unit view and an identity
// projection. Callers are expected to follow up with SetView and
// SetProjection before rendering.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewOrbitCamera(options ...OrbitCameraOption) Camera {
	c := &orbitCameraImpl{
		mu:        &sync.Mutex{},
		up:        [3]float32{0, 1, 0},
		radius:    1,
		minRadius: 1,
		maxRadius: 1,
	}
	common.Identity(c.projectionMatrix[:])

	gestureOptions := []gesture.ContextOption{
		gesture.WithOutputCallback(c.applyManipulation),
	}
	for _, option := range options {
		option(c, &gestureOptions)
	}

	c.ctx = gesture.NewContext(gestureOptions...)
	c.mu.Lock()
	c.updateData()
	c.mu.Unlock()
	return c
}

// applyManipulation is the gesture output callback. Horizontal drag orbits
// the longitude, vertical drag orbits the latitude with inverted sign, and
// pinch scale is applied as its reciprocal to the radius (spreading fingers
// zooms in).
func (c *orbitCameraImpl) applyManipulation(d gesture.Delta) {
	c.OrbitLongitude(d.TranslationX * manipulationRate)
	c.OrbitLatitude(-d.TranslationY * manipulationRate)
	if d.Scale != 0 {
		c.ZoomByScale(1 / d.Scale)
	}
}

// updateData recomputes the eye position and the view and view-projection
// matrices from the current spherical coordinates.
// Caller must hold the mutex.
func (c *orbitCameraImpl) updateData() {
	sinLat := math32.Sin(c.latAngle)
	c.eye = [3]float32{
		c.radius * sinLat * math32.Cos(c.longAngle),
		c.radius * math32.Cos(c.latAngle),
		c.radius * sinLat * math32.Sin(c.longAngle),
	}

	common.LookAt(c.viewMatrix[:],
		c.eye[0], c.eye[1], c.eye[2],
		c.center[0], c.center[1], c.center[2],
		c.up[0], c.up[1], c.up[2],
	)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}

func (c *orbitCameraImpl) SetView(centerX, centerY, centerZ, radius, minRadius, maxRadius, longAngle, latAngle float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.center = [3]float32{centerX, centerY, centerZ}
	c.radius = radius
	c.minRadius = minRadius
	c.maxRadius = maxRadius
	c.longAngle = longAngle
	c.latAngle = latAngle
	c.updateData()
}

func (c *orbitCameraImpl) SetProjection(fov, aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fovY := fov
	if aspect > 1 {
		fovY = fov / aspect
	}
	// Reversed-Z depth range: near plane at 10000, far plane at 0.1.
	common.PerspectiveRH(c.projectionMatrix[:], fovY, aspect, 10000.0, 0.1)
	c.updateData()
}

func (c *orbitCameraImpl) OrbitLongitude(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.longAngle += delta
	c.updateData()
}

func (c *orbitCameraImpl) OrbitLatitude(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latAngle = common.Clamp(c.latAngle+delta, latitudeLimit, math32.Pi-latitudeLimit)
	c.updateData()
}

func (c *orbitCameraImpl) ZoomByDelta(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = common.Clamp(c.radius+delta, c.minRadius, c.maxRadius)
	c.updateData()
}

func (c *orbitCameraImpl) ZoomByScale(factor float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = common.Clamp(c.radius*factor, c.minRadius, c.maxRadius)
	c.updateData()
}

func (c *orbitCameraImpl) AddPointer(id uint32) {
	c.ctx.AddPointer(id)
}

func (c *orbitCameraImpl) RemovePointer(id uint32) {
	c.ctx.RemovePointer(id)
}

func (c *orbitCameraImpl) ProcessPointerFrame(id uint32, x, y float32) {
	c.ctx.ProcessPointerFrame(id, x, y)
}

func (c *orbitCameraImpl) ProcessInertia() {
	c.ctx.ProcessInertia()
}

func (c *orbitCameraImpl) Radius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *orbitCameraImpl) Longitude() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.longAngle
}

func (c *orbitCameraImpl) Latitude() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latAngle
}

func (c *orbitCameraImpl) Eye() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye[0], c.eye[1], c.eye[2]
}

func (c *orbitCameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *orbitCameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *orbitCameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}
