// Package gui models the on-screen overlay: the workload badges and the FPS
// readout. It owns layout, visibility, and hit testing; actually drawing the
// overlay is the workloads' concern and out of scope here.
package gui

// Control is any hit-testable overlay element.
type Control interface {
	// Bounds returns the control's rectangle in render-target pixels.
	Bounds() (x, y, width, height int)

	// Visible reports whether the control participates in hit testing.
	Visible() bool
}

// Sprite is a rectangular image control, used for the workload badges.
type Sprite struct {
	x, y          int
	width, height int
	image         string
	visible       bool
}

func (s *Sprite) Bounds() (x, y, width, height int) {
	return s.x, s.y, s.width, s.height
}

func (s *Sprite) Visible() bool {
	return s.visible
}

// Image returns the sprite's image asset name.
func (s *Sprite) Image() string {
	return s.image
}

// SetVisible shows or hides the sprite. Hidden sprites are skipped by
// HitTest.
func (s *Sprite) SetVisible(visible bool) {
	s.visible = visible
}

// Text is a text control with a fixed hit box, used for the FPS readout.
type Text struct {
	x, y          int
	width, height int
	text          string
}

func (t *Text) Bounds() (x, y, width, height int) {
	return t.x, t.y, t.width, t.height
}

func (t *Text) Visible() bool {
	return true
}

// Value returns the current text.
func (t *Text) Value() string {
	return t.text
}

// SetValue replaces the displayed text.
func (t *Text) SetValue(text string) {
	t.text = text
}

// GUI is an ordered collection of overlay controls. Later additions sit on
// top of earlier ones for hit-testing purposes.
type GUI struct {
	controls []Control
}

// New creates an empty GUI.
func New() *GUI {
	return &GUI{}
}

// AddSprite appends a visible sprite control.
//
// Parameters:
//   - x, y: top-left position in render-target pixels
//   - width, height: extent in render-target pixels
//   - image: image asset name for the workload badge
//
// Returns:
//   - *Sprite: the created sprite
func (g *GUI) AddSprite(x, y, width, height int, image string) *Sprite {
	s := &Sprite{x: x, y: y, width: width, height: height, image: image, visible: true}
	g.controls = append(g.controls, s)
	return s
}

// AddText appends a text control with the default hit box.
//
// Parameters:
//   - x, y: top-left position in render-target pixels
//
// Returns:
//   - *Text: the created text control
func (g *GUI) AddText(x, y int) *Text {
	t := &Text{x: x, y: y, width: 140, height: 30}
	g.controls = append(g.controls, t)
	return t
}

// HitTest returns the topmost visible control containing the point, or nil.
// Pointer-down events that miss every control fall through to the camera.
//
// Parameters:
//   - x, y: point in render-target pixels
//
// Returns:
//   - Control: the hit control, or nil
func (g *GUI) HitTest(x, y int) Control {
	for i := len(g.controls) - 1; i >= 0; i-- {
		c := g.controls[i]
		if !c.Visible() {
			continue
		}
		cx, cy, cw, ch := c.Bounds()
		if x >= cx && x < cx+cw && y >= cy && y < cy+ch {
			return c
		}
	}
	return nil
}
