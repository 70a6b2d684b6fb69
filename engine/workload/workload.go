package workload

import (
	"github.com/Carmen-Shannon/meteor/engine/camera"
	"github.com/Carmen-Shannon/meteor/engine/settings"
)

// Workload is the render backend contract the frame scheduler drives. A
// workload may be rendered only while it holds a configured swap chain;
// backend switches release the outgoing workload's swap chain before
// resizing the incoming one.
type Workload interface {
	// Name returns the workload's display name for the title bar and logs.
	Name() string

	// ResizeSwapChain configures (or reconfigures) the swap chain at the
	// given render resolution. Safe to call repeatedly; each call replaces
	// the previous configuration.
	//
	// Parameters:
	//   - width, height: render-target size in pixels
	//   - vsync: configure the surface for vsync presentation
	//
	// Returns:
	//   - error: surface or depth attachment configuration failure
	ResizeSwapChain(width, height int, vsync bool) error

	// ReleaseSwapChain drops the swap chain. Rendering without a configured
	// swap chain is an error; callers must Resize before the next Render.
	ReleaseSwapChain()

	// WaitForReadyToRender blocks until the workload can accept another
	// frame without exceeding its frame buffering depth. The basic workload
	// never buffers and returns immediately.
	WaitForReadyToRender()

	// Render advances the simulation by frameTime seconds, uploads the
	// frame data and draws the belt with the camera's current
	// view-projection.
	//
	// Parameters:
	//   - frameTime: frame delta in seconds
	//   - cam: the camera supplying the view-projection matrix
	//   - s: live render settings read each frame
	//
	// Returns:
	//   - error: swap chain not configured, or a frame acquisition failure
	Render(frameTime float32, cam camera.Camera, s *settings.Settings) error

	// Destroy releases the workload's GPU resources. The shared GPU device
	// stays alive.
	Destroy()
}
