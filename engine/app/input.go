package app

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/meteor/common"
	"github.com/Carmen-Shannon/meteor/engine/camera"
	"github.com/Carmen-Shannon/meteor/engine/gui"
	"github.com/Carmen-Shannon/meteor/engine/settings"
	"github.com/Carmen-Shannon/meteor/engine/window"
)

// wheelZoomRate converts one scroll notch into a radius delta. A notch is
// 120 wheel units at 0.07 radius units each, zooming in on scroll-up.
const wheelZoomRate = -0.07 * 120

// Action is a discrete input command the frame scheduler must sequence
// itself rather than apply mid-event.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionSwitchBasic
	ActionSwitchQueued
	ActionToggleFullscreen
	ActionToggleProfiler
)

// inputRouter translates window events into camera manipulation, settings
// toggles and scheduler actions. Simple toggles mutate settings in place as
// the event arrives; anything that must be sequenced against the frame
// (backend switches, quit, fullscreen) is queued for the scheduler to drain.
type inputRouter struct {
	mu *sync.Mutex

	cam      camera.Camera
	overlay  *gui.GUI
	settings *settings.Settings

	// badge is the workload badge sprite; clicking it requests a backend
	// switch, like pressing 1 or 2. Clicking the FPS readout toggles the
	// frame-rate lock.
	badgeBasic  *gui.Sprite
	badgeQueued *gui.Sprite
	fpsText     *gui.Text

	pending []Action
}

func newInputRouter(cam camera.Camera, overlay *gui.GUI, s *settings.Settings, badgeBasic, badgeQueued *gui.Sprite, fpsText *gui.Text) *inputRouter {
	return &inputRouter{
		mu:          &sync.Mutex{},
		cam:         cam,
		overlay:     overlay,
		settings:    s,
		badgeBasic:  badgeBasic,
		badgeQueued: badgeQueued,
		fpsText:     fpsText,
	}
}

// bind registers the router on the window's input callbacks.
func (r *inputRouter) bind(win window.Window) {
	win.SetKeyDownCallback(r.onKeyDown)
	win.SetScrollCallback(r.onScroll)
	win.SetPointerDownCallback(r.onPointerDown)
	win.SetPointerUpdateCallback(r.onPointerUpdate)
	win.SetPointerUpCallback(r.onPointerUp)
}

// drain returns the queued scheduler actions in arrival order.
func (r *inputRouter) drain() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := r.pending
	r.pending = nil
	return actions
}

func (r *inputRouter) queue(a Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, a)
}

func (r *inputRouter) onKeyDown(keyCode uint32, alt bool) {
	switch keyCode {
	case common.KeyEsc:
		r.queue(ActionQuit)
	case common.KeyEnter:
		if alt {
			r.queue(ActionToggleFullscreen)
		}
	case common.Key1:
		r.queue(ActionSwitchBasic)
	case common.Key2:
		r.queue(ActionSwitchQueued)
	case common.KeySpace:
		r.settings.Animate = !r.settings.Animate
		if r.settings.Animate {
			log.Printf("animation enabled")
		} else {
			log.Printf("animation paused")
		}
	case common.KeyV:
		r.settings.VSync = !r.settings.VSync
		log.Printf("vsync: %v", r.settings.VSync)
	case common.KeyM:
		r.settings.MultithreadedRendering = !r.settings.MultithreadedRendering
		log.Printf("multithreaded rendering: %v", r.settings.MultithreadedRendering)
	case common.KeyI:
		r.settings.ExecuteIndirect = !r.settings.ExecuteIndirect
		log.Printf("execute indirect: %v", r.settings.ExecuteIndirect)
	case common.KeyS:
		r.settings.SubmitRendering = !r.settings.SubmitRendering
		log.Printf("submit rendering: %v", r.settings.SubmitRendering)
	case common.KeyP:
		r.queue(ActionToggleProfiler)
	}
}

func (r *inputRouter) onScroll(delta float32) {
	r.cam.ZoomByDelta(wheelZoomRate * delta)
}

// onPointerDown routes the press GUI-first: a press landing on an overlay
// control never reaches the camera. Clicking a workload badge requests the
// switch to the other backend.
func (r *inputRouter) onPointerDown(id uint32, x, y float32) {
	sx, sy := r.toRenderUnits(x, y)
	if hit := r.overlay.HitTest(int(sx), int(sy)); hit != nil {
		switch hit {
		case r.badgeBasic:
			r.queue(ActionSwitchQueued)
		case r.badgeQueued:
			r.queue(ActionSwitchBasic)
		case r.fpsText:
			r.settings.LockFrameRate = !r.settings.LockFrameRate
			log.Printf("frame rate lock: %v", r.settings.LockFrameRate)
		}
		return
	}

	r.cam.AddPointer(id)
	r.cam.ProcessPointerFrame(id, sx, sy)
}

func (r *inputRouter) onPointerUpdate(id uint32, x, y float32) {
	sx, sy := r.toRenderUnits(x, y)
	r.cam.ProcessPointerFrame(id, sx, sy)
}

func (r *inputRouter) onPointerUp(id uint32, x, y float32) {
	sx, sy := r.toRenderUnits(x, y)
	r.cam.ProcessPointerFrame(id, sx, sy)
	r.cam.RemovePointer(id)
}

// toRenderUnits scales window pixel coordinates into render-target units so
// manipulation speed is independent of the render scale.
func (r *inputRouter) toRenderUnits(x, y float32) (float32, float32) {
	scale := r.settings.RenderScale
	if scale <= 0 {
		scale = 1
	}
	return x * float32(scale), y * float32(scale)
}
