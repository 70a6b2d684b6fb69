// Package app owns the frame loop: it drains input, sequences backend
// switches, advances gesture inertia, paces the frame rate and drives the
// active workload. The loop is single-threaded on the window's event thread;
// only the workloads fan work out.
package app

import (
	"fmt"
	"log"
	"time"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/meteor/engine/camera"
	"github.com/Carmen-Shannon/meteor/engine/gui"
	"github.com/Carmen-Shannon/meteor/engine/profiler"
	"github.com/Carmen-Shannon/meteor/engine/settings"
	"github.com/Carmen-Shannon/meteor/engine/sim"
	"github.com/Carmen-Shannon/meteor/engine/stats"
	"github.com/Carmen-Shannon/meteor/engine/window"
	"github.com/Carmen-Shannon/meteor/engine/workload"
)

// defaultFOV is the projection field of view handed to the camera on every
// resize.
const defaultFOV = math32.Pi / 2 * 0.8 * 1.5

// Camera framing for the belt: the orbit centers slightly below the disc
// plane and the radius range brackets the belt's outer edge.
const (
	initialLongitude = 4.50
	initialLatitude  = 1.45
)

// App wires the window, camera, workloads and overlay into the frame loop.
type App struct {
	win window.Window
	cam camera.Camera
	set *settings.Settings

	basic  workload.Workload
	queued workload.Workload
	active workload.Workload

	overlay     *gui.GUI
	badgeBasic  *gui.Sprite
	badgeQueued *gui.Sprite
	fpsText     *gui.Text

	router    *inputRouter
	clock     *Clock
	collector *stats.Collector

	prof             *profiler.Profiler
	profilingEnabled bool
}

// NewApp assembles the frame loop around the given window, camera and
// workloads. Either workload may be nil when disabled on the command line,
// but not both; the active workload is picked from the settings.
//
// Parameters:
//   - win: the platform window
//   - cam: the orbit camera
//   - s: live benchmark settings
//   - basic, queued: the two render backends, nil when disabled
//   - options: functional options to further configure the app
//
// Returns:
//   - *App: the assembled app
//   - error: no workload available, or the requested workload is disabled
func NewApp(win window.Window, cam camera.Camera, s *settings.Settings, basic, queued workload.Workload, options ...AppBuilderOption) (*App, error) {
	if basic == nil && queued == nil {
		return nil, fmt.Errorf("app: no workload available")
	}

	a := &App{
		win:     win,
		cam:     cam,
		set:     s,
		basic:   basic,
		queued:  queued,
		overlay: gui.New(),
		clock:   NewClock(nil),
		prof:    profiler.NewProfiler(),
	}
	for _, opt := range options {
		opt(a)
	}

	a.badgeBasic = a.overlay.AddSprite(10, 10, 140, 50, "badge_basic")
	a.badgeQueued = a.overlay.AddSprite(10, 10, 140, 50, "badge_queued")
	a.fpsText = a.overlay.AddText(10, 70)

	if s.UseQueued && queued != nil {
		a.active = queued
	} else if basic != nil {
		a.active = basic
	} else {
		a.active = queued
	}
	s.UseQueued = a.active == queued
	a.badgeBasic.SetVisible(a.active == basic)
	a.badgeQueued.SetVisible(a.active == queued)

	if s.CloseAfterSeconds > 0 {
		a.collector = stats.New(s.CloseAfterSeconds)
	}

	a.router = newInputRouter(cam, a.overlay, s, a.badgeBasic, a.badgeQueued, a.fpsText)
	a.router.bind(win)
	win.SetResizeCallback(a.onResize)

	return a, nil
}

// ResetCameraView frames the whole belt: centered slightly below the disc
// plane, radius just outside the outer edge, zoom clamped to stay within
// sight of the belt.
func (a *App) ResetCameraView() {
	a.cam.SetView(
		0, -0.4*sim.DiscRadius, 0,
		sim.OrbitRadius+sim.DiscRadius+10,
		sim.OrbitRadius-3*sim.DiscRadius,
		sim.OrbitRadius+3*sim.DiscRadius,
		initialLongitude, initialLatitude,
	)
}

// Run executes the frame loop until the window closes, then flushes the
// statistics files when a timed run was requested.
//
// Returns:
//   - error: initial swap chain configuration or stats flush failure
func (a *App) Run() error {
	a.ResetCameraView()
	a.set.WindowWidth = a.win.Width()
	a.set.WindowHeight = a.win.Height()
	a.set.UpdateRenderResolution()
	a.cam.SetProjection(defaultFOV, a.set.Aspect())

	if err := a.active.ResizeSwapChain(a.set.RenderWidth, a.set.RenderHeight, a.set.VSync); err != nil {
		return fmt.Errorf("app: configure swap chain: %w", err)
	}
	a.win.SetTitle(a.title())

	for a.win.PollEvents() {
		for _, action := range a.router.drain() {
			a.apply(action)
		}

		a.cam.ProcessInertia()
		a.active.WaitForReadyToRender()

		rawMs, smoothedMs, elapsed := a.clock.Tick()

		var fps float64
		if smoothedMs > 0 {
			fps = 1000 / smoothedMs
		}
		if a.collector != nil {
			a.collector.RecordFrame(fps)
			a.collector.AccumulateSample(rawMs, smoothedMs, elapsed)
			if elapsed >= a.set.CloseAfterSeconds {
				a.win.RequestClose()
				continue
			}
		}
		a.fpsText.SetValue(a.fpsLabel(fps))

		renderStart := time.Now()
		if err := a.active.Render(float32(smoothedMs/1000), a.cam, a.set); err != nil {
			log.Printf("render: %v", err)
		}
		if a.profilingEnabled {
			a.prof.Tick()
		}

		if a.set.LockFrameRate && a.set.LockedFrameRate > 0 {
			renderMs := float64(time.Since(renderStart)) / float64(time.Millisecond)
			deltaMs := 1000/float64(a.set.LockedFrameRate) - renderMs
			if deltaMs > 1 {
				time.Sleep(time.Duration(deltaMs * float64(time.Millisecond)))
			}
		}
	}

	if a.collector != nil {
		if err := a.collector.WriteFiles(a.set.StatsSummaryFileName, a.set.StatsFileName); err != nil {
			return err
		}
		if minFPS, maxFPS, avgFPS, ok := a.collector.Summary(); ok {
			log.Printf("fps summary: min %.2f max %.2f avg %.2f", minFPS, maxFPS, avgFPS)
		}
	}
	return nil
}

// apply executes one queued input action at its sequenced point in the
// frame.
func (a *App) apply(action Action) {
	switch action {
	case ActionQuit:
		a.win.RequestClose()
	case ActionSwitchBasic:
		a.switchWorkload(false)
	case ActionSwitchQueued:
		a.switchWorkload(true)
	case ActionToggleFullscreen:
		a.win.ToggleFullscreen()
	case ActionToggleProfiler:
		a.profilingEnabled = !a.profilingEnabled
		log.Printf("profiler: %v", a.profilingEnabled)
	}
}

// switchWorkload hands the swap chain from the active workload to the
// requested one. The outgoing workload releases its swap chain before the
// incoming one configures at the current render resolution, so the surface
// is never owned twice.
func (a *App) switchWorkload(useQueued bool) {
	target := a.basic
	if useQueued {
		target = a.queued
	}
	if target == nil {
		log.Printf("requested workload is disabled")
		return
	}
	if target == a.active {
		return
	}

	a.active.ReleaseSwapChain()
	if err := target.ResizeSwapChain(a.set.RenderWidth, a.set.RenderHeight, a.set.VSync); err != nil {
		log.Printf("switch workload: %v", err)
		// Hand the swap chain back so rendering can continue.
		if rerr := a.active.ResizeSwapChain(a.set.RenderWidth, a.set.RenderHeight, a.set.VSync); rerr != nil {
			log.Printf("restore workload: %v", rerr)
		}
		return
	}

	a.active = target
	a.set.UseQueued = useQueued
	a.badgeBasic.SetVisible(a.active == a.basic)
	a.badgeQueued.SetVisible(a.active == a.queued)
	a.win.SetTitle(a.title())
	log.Printf("switched to %s workload", target.Name())
}

// onResize tracks the new window size, reprojects the camera and resizes the
// active workload's swap chain at the derived render resolution.
func (a *App) onResize(width, height int) {
	a.set.WindowWidth = width
	a.set.WindowHeight = height
	a.set.UpdateRenderResolution()
	a.cam.SetProjection(defaultFOV, a.set.Aspect())

	if err := a.active.ResizeSwapChain(a.set.RenderWidth, a.set.RenderHeight, a.set.VSync); err != nil {
		log.Printf("resize swap chain: %v", err)
	}
}

func (a *App) title() string {
	return "Meteor [" + a.active.Name() + "]"
}

// fpsLabel formats the overlay readout. While the frame-rate lock is engaged
// the numeric value is hidden; the readout shows only the lock indicator.
func (a *App) fpsLabel(fps float64) string {
	if a.set.LockFrameRate {
		return "(Locked)"
	}
	return fmt.Sprintf("%.0f FPS", fps)
}
