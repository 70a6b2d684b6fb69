package window

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
//
// Pointer events are synthesized from the primary mouse button: a press
// starts a capture and reports pointer-down, cursor motion during the
// capture reports pointer-update, and release ends the capture with
// pointer-up. Motion outside a capture is not reported.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is
	// resized. Zero-sized events (minimize) are swallowed.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta in notches (positive = up)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the key code and modifier bits
	SetKeyDownCallback(callback func(keyCode uint32, alt bool))

	// SetPointerDownCallback sets the callback for the start of a pointer
	// capture.
	//
	// Parameters:
	//   - callback: function receiving the pointer id and position in pixels
	SetPointerDownCallback(callback func(id uint32, x, y float32))

	// SetPointerUpdateCallback sets the callback for pointer motion during a
	// capture.
	//
	// Parameters:
	//   - callback: function receiving the pointer id and position in pixels
	SetPointerUpdateCallback(callback func(id uint32, x, y float32))

	// SetPointerUpCallback sets the callback for the end of a pointer
	// capture.
	//
	// Parameters:
	//   - callback: function receiving the pointer id and position in pixels
	SetPointerUpCallback(callback func(id uint32, x, y float32))

	// SetTitle replaces the window title text.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// ToggleFullscreen switches between borderless fullscreen on the
	// primary monitor and the saved windowed placement.
	ToggleFullscreen()

	// RequestClose marks the window for shutdown; the next PollEvents
	// returns false.
	RequestClose()

	// PollEvents drains pending platform events without blocking and
	// reports whether the window is still open.
	//
	// Returns:
	//   - bool: false once the window should close
	PollEvents() bool

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// fullscreen requests borderless fullscreen at creation.
	fullscreen bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onResize is called when the framebuffer is resized.
	onResize func(width, height int)

	// onScroll is called for mouse wheel events.
	onScroll func(delta float32)

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32, alt bool)

	// onPointerDown, onPointerUpdate and onPointerUp report the synthesized
	// pointer capture derived from the primary mouse button.
	onPointerDown   func(id uint32, x, y float32)
	onPointerUpdate func(id uint32, x, y float32)
	onPointerUp     func(id uint32, x, y float32)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:  "Default Window Title",
		width:  1280,
		height: 720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32, alt bool)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetPointerDownCallback(callback func(id uint32, x, y float32)) {
	w.onPointerDown = callback
}

func (w *engineWindow) SetPointerUpdateCallback(callback func(id uint32, x, y float32)) {
	w.onPointerUpdate = callback
}

func (w *engineWindow) SetPointerUpCallback(callback func(id uint32, x, y float32)) {
	w.onPointerUp = callback
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) ToggleFullscreen() {
	platformToggleFullscreen(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) PollEvents() bool {
	return platformProcessMessages(w)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
