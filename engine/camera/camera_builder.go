package camera

import "github.com/Carmen-Shannon/meteor/engine/gesture"

// OrbitCameraOption is a functional option for configuring an orbit camera.
// Options may also append gesture context options, which are applied when the
// embedded gesture context is constructed.
type OrbitCameraOption func(*orbitCameraImpl, *[]gesture.ContextOption)

// WithUp sets the camera's up vector (default 0, 1, 0).
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - OrbitCameraOption: option function to apply
func WithUp(x, y, z float32) OrbitCameraOption {
	return func(c *orbitCameraImpl, _ *[]gesture.ContextOption) {
		c.up = [3]float32{x, y, z}
	}
}

// WithGestureOptions forwards extra options to the embedded gesture context,
// e.g. inertia tuning for tests.
//
// Parameters:
//   - options: gesture context options to append
//
// Returns:
//   - OrbitCameraOption: option function to apply
func WithGestureOptions(options ...gesture.ContextOption) OrbitCameraOption {
	return func(_ *orbitCameraImpl, gestureOptions *[]gesture.ContextOption) {
		*gestureOptions = append(*gestureOptions, options...)
	}
}
