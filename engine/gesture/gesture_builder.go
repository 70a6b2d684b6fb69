package gesture

// ContextOption is a functional option for configuring a Context.
// Use the With* functions to create options applied during NewContext.
type ContextOption func(*contextImpl)

// WithOutputCallback registers the delta consumer at construction time.
//
// Parameters:
//   - cb: the delta consumer
//
// Returns:
//   - ContextOption: option function to apply
func WithOutputCallback(cb OutputFunc) ContextOption {
	return func(c *contextImpl) {
		c.output = cb
	}
}

// WithVelocityBlend sets the exponential blend factor of the velocity filter
// that seeds inertia. Values outside (0, 1] are ignored.
//
// Parameters:
//   - blend: weight of the newest sample (default 0.4)
//
// Returns:
//   - ContextOption: option function to apply
func WithVelocityBlend(blend float32) ContextOption {
	return func(c *contextImpl) {
		if blend > 0 && blend <= 1 {
			c.velocityBlend = blend
		}
	}
}

// WithDecay sets the per-tick inertia decay factor. Values outside (0, 1)
// are ignored.
//
// Parameters:
//   - decay: multiplier applied to the residual motion each tick (default 0.95)
//
// Returns:
//   - ContextOption: option function to apply
func WithDecay(decay float32) ContextOption {
	return func(c *contextImpl) {
		if decay > 0 && decay < 1 {
			c.decay = decay
		}
	}
}

// WithRestThreshold sets the translation magnitude below which inertia stops
// and output ceases entirely.
//
// Parameters:
//   - threshold: rest threshold in pointer units (default 0.01)
//
// Returns:
//   - ContextOption: option function to apply
func WithRestThreshold(threshold float32) ContextOption {
	return func(c *contextImpl) {
		if threshold > 0 {
			c.restThreshold = threshold
		}
	}
}
