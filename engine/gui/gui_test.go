package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHitTestFindsControl(t *testing.T) {
	g := New()
	badge := g.AddSprite(10, 10, 140, 50, "badge")

	assert.Equal(t, badge, g.HitTest(10, 10))
	assert.Equal(t, badge, g.HitTest(149, 59))
	assert.Nil(t, g.HitTest(150, 60), "bounds are exclusive on the far edge")
	assert.Nil(t, g.HitTest(500, 500))
}

func TestHitTestPrefersTopmost(t *testing.T) {
	g := New()
	under := g.AddSprite(0, 0, 100, 100, "under")
	over := g.AddSprite(50, 50, 100, 100, "over")

	assert.Equal(t, over, g.HitTest(75, 75))
	assert.Equal(t, under, g.HitTest(25, 25))
}

func TestHiddenSpritesSkipped(t *testing.T) {
	g := New()
	badge := g.AddSprite(0, 0, 100, 100, "badge")

	badge.SetVisible(false)
	assert.Nil(t, g.HitTest(50, 50))

	badge.SetVisible(true)
	assert.Equal(t, badge, g.HitTest(50, 50))
}

func TestTextControl(t *testing.T) {
	g := New()
	text := g.AddText(10, 70)

	text.SetValue("60 FPS")
	assert.Equal(t, "60 FPS", text.Value())

	// Text has a fixed hit box and is always visible.
	assert.Equal(t, text, g.HitTest(100, 80))
	x, y, w, h := text.Bounds()
	assert.Equal(t, [4]int{10, 70, 140, 30}, [4]int{x, y, w, h})
}

func TestSpriteImage(t *testing.T) {
	g := New()
	badge := g.AddSprite(0, 0, 10, 10, "badge_basic")
	assert.Equal(t, "badge_basic", badge.Image())
}
