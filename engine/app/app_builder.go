package app

// AppBuilderOption is a functional option for configuring an App.
// Use the With* functions to create options.
type AppBuilderOption func(a *App)

// WithProfilingEnabled starts the app with the runtime profiler logging
// enabled (normally toggled at runtime with the P key).
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithProfilingEnabled() AppBuilderOption {
	return func(a *App) {
		a.profilingEnabled = true
	}
}

// WithClock replaces the frame clock, letting tests drive time manually.
//
// Parameters:
//   - c: the clock to use
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithClock(c *Clock) AppBuilderOption {
	return func(a *App) {
		a.clock = c
	}
}
