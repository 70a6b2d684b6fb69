package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/meteor/common"
	"github.com/Carmen-Shannon/meteor/engine/camera"
	"github.com/Carmen-Shannon/meteor/engine/gui"
	"github.com/Carmen-Shannon/meteor/engine/settings"
)

func newTestRouter(t *testing.T) (*inputRouter, camera.Camera, *settings.Settings, *gui.Sprite, *gui.Sprite) {
	t.Helper()

	cam := camera.NewOrbitCamera()
	cam.SetView(0, 0, 0, 100, 10, 200, 1, 1)

	s := settings.New()
	overlay := gui.New()
	badgeBasic := overlay.AddSprite(10, 10, 140, 50, "badge_basic")
	badgeQueued := overlay.AddSprite(10, 10, 140, 50, "badge_queued")
	badgeQueued.SetVisible(false)
	fpsText := overlay.AddText(10, 70)

	return newInputRouter(cam, overlay, s, badgeBasic, badgeQueued, fpsText), cam, s, badgeBasic, badgeQueued
}

func TestKeyTogglesMutateSettings(t *testing.T) {
	r, _, s, _, _ := newTestRouter(t)

	r.onKeyDown(common.KeySpace, false)
	assert.False(t, s.Animate)
	r.onKeyDown(common.KeySpace, false)
	assert.True(t, s.Animate)

	r.onKeyDown(common.KeyV, false)
	assert.True(t, s.VSync)
	r.onKeyDown(common.KeyM, false)
	assert.False(t, s.MultithreadedRendering)
	r.onKeyDown(common.KeyI, false)
	assert.True(t, s.ExecuteIndirect)
	r.onKeyDown(common.KeyS, false)
	assert.False(t, s.SubmitRendering)

	// Toggles never queue scheduler actions.
	assert.Empty(t, r.drain())
}

func TestSchedulerActionsQueuedInOrder(t *testing.T) {
	r, _, _, _, _ := newTestRouter(t)

	r.onKeyDown(common.Key2, false)
	r.onKeyDown(common.Key1, false)
	r.onKeyDown(common.KeyEsc, false)

	assert.Equal(t, []Action{ActionSwitchQueued, ActionSwitchBasic, ActionQuit}, r.drain())
	assert.Empty(t, r.drain(), "drain must clear the queue")
}

func TestAltEnterTogglesFullscreen(t *testing.T) {
	r, _, _, _, _ := newTestRouter(t)

	r.onKeyDown(common.KeyEnter, false)
	assert.Empty(t, r.drain(), "plain Enter is not fullscreen")

	r.onKeyDown(common.KeyEnter, true)
	assert.Equal(t, []Action{ActionToggleFullscreen}, r.drain())
}

func TestScrollZoomsCamera(t *testing.T) {
	r, cam, _, _, _ := newTestRouter(t)

	before := cam.Radius()
	r.onScroll(1)
	assert.Less(t, cam.Radius(), before, "scroll up zooms in")

	r.onScroll(-2)
	assert.Greater(t, cam.Radius(), before)
}

func TestPointerDownOnBadgeRequestsSwitch(t *testing.T) {
	r, cam, _, _, _ := newTestRouter(t)

	longitude := cam.Longitude()
	r.onPointerDown(0, 20, 20)
	r.onPointerUpdate(0, 120, 20)
	r.onPointerUp(0, 120, 20)

	assert.Equal(t, []Action{ActionSwitchQueued}, r.drain())
	assert.Equal(t, longitude, cam.Longitude(), "badge press never reaches the camera")
}

func TestFpsTextClickTogglesFrameRateLock(t *testing.T) {
	r, cam, s, _, _ := newTestRouter(t)
	require.False(t, s.LockFrameRate)

	longitude := cam.Longitude()
	r.onPointerDown(0, 20, 80)
	r.onPointerUp(0, 20, 80)

	assert.True(t, s.LockFrameRate)
	assert.Empty(t, r.drain(), "the lock toggle never queues a scheduler action")
	assert.Equal(t, longitude, cam.Longitude(), "readout press never reaches the camera")

	r.onPointerDown(0, 20, 80)
	assert.False(t, s.LockFrameRate)
}

func TestPointerDragManipulatesCamera(t *testing.T) {
	r, cam, _, _, _ := newTestRouter(t)

	longitude := cam.Longitude()
	r.onPointerDown(0, 500, 500)
	r.onPointerUpdate(0, 600, 500)
	r.onPointerUp(0, 600, 500)

	assert.Greater(t, cam.Longitude(), longitude)
}

func TestPointerScaledToRenderUnits(t *testing.T) {
	r, cam, s, _, _ := newTestRouter(t)
	s.RenderScale = 0.5

	// Window coordinates (40, 40) land at render units (20, 20), inside the
	// badge.
	r.onPointerDown(0, 40, 40)
	require.Equal(t, []Action{ActionSwitchQueued}, r.drain())

	// At scale 0.5 a 200px drag manipulates like a 100px one.
	longitude := cam.Longitude()
	r.onPointerDown(0, 1000, 1000)
	r.onPointerUpdate(0, 1200, 1000)
	assert.InDelta(t, longitude+0.07, cam.Longitude(), 1e-4)
	r.onPointerUp(0, 1200, 1000)
}
