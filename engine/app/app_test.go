package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/meteor/engine/camera"
	"github.com/Carmen-Shannon/meteor/engine/settings"
	"github.com/Carmen-Shannon/meteor/engine/window"
	"github.com/Carmen-Shannon/meteor/engine/workload"
)

// fakeWindow satisfies window.Window without a display.
type fakeWindow struct {
	width, height int
	title         string
	closed        bool
	onResize      func(int, int)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetResizeCallback(cb func(int, int)) { w.onResize = cb }

func (w *fakeWindow) SetScrollCallback(func(float32)) {}

func (w *fakeWindow) SetKeyDownCallback(func(uint32, bool)) {}

func (w *fakeWindow) SetPointerDownCallback(func(uint32, float32, float32)) {}

func (w *fakeWindow) SetPointerUpdateCallback(func(uint32, float32, float32)) {}

func (w *fakeWindow) SetPointerUpCallback(func(uint32, float32, float32)) {}

func (w *fakeWindow) SetTitle(title string) { w.title = title }

func (w *fakeWindow) ToggleFullscreen() {}

func (w *fakeWindow) RequestClose() { w.closed = true }

func (w *fakeWindow) PollEvents() bool { return !w.closed }

func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }

func (w *fakeWindow) Close() error { return nil }

func (w *fakeWindow) Width() int { return w.width }

func (w *fakeWindow) Height() int { return w.height }

// fakeWorkload records the swap chain lifecycle calls the scheduler makes
// and the frame times it dispatches.
type fakeWorkload struct {
	name       string
	events     *[]string
	configured bool
	width      int
	height     int
	renders    int
	frameTimes []float32
}

var _ workload.Workload = &fakeWorkload{}

func (f *fakeWorkload) Name() string { return f.name }

func (f *fakeWorkload) ResizeSwapChain(width, height int, vsync bool) error {
	*f.events = append(*f.events, f.name+":resize")
	f.configured = true
	f.width, f.height = width, height
	return nil
}

func (f *fakeWorkload) ReleaseSwapChain() {
	*f.events = append(*f.events, f.name+":release")
	f.configured = false
}

func (f *fakeWorkload) WaitForReadyToRender() {}

func (f *fakeWorkload) Render(frameTime float32, cam camera.Camera, s *settings.Settings) error {
	if !f.configured {
		panic("render without a configured swap chain")
	}
	f.renders++
	f.frameTimes = append(f.frameTimes, frameTime)
	return nil
}

func (f *fakeWorkload) Destroy() {}

func newTestApp(t *testing.T, s *settings.Settings, options ...AppBuilderOption) (*App, *fakeWindow, *fakeWorkload, *fakeWorkload, *[]string) {
	t.Helper()

	events := &[]string{}
	basic := &fakeWorkload{name: "Basic", events: events}
	queued := &fakeWorkload{name: "Queued", events: events}
	win := &fakeWindow{width: 800, height: 600}

	cam := camera.NewOrbitCamera()
	a, err := NewApp(win, cam, s, basic, queued, options...)
	require.NoError(t, err)
	return a, win, basic, queued, events
}

func TestNewAppRequiresAWorkload(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600}
	_, err := NewApp(win, camera.NewOrbitCamera(), settings.New(), nil, nil)
	assert.Error(t, err)
}

func TestQueuedActiveByDefault(t *testing.T) {
	s := settings.New()
	a, _, _, queued, _ := newTestApp(t, s)

	assert.Equal(t, workload.Workload(queued), a.active)
	assert.True(t, s.UseQueued)
}

func TestSwitchReleasesBeforeResize(t *testing.T) {
	s := settings.New()
	a, _, basic, queued, events := newTestApp(t, s)
	s.UpdateRenderResolution()
	require.NoError(t, a.active.ResizeSwapChain(s.RenderWidth, s.RenderHeight, s.VSync))
	*events = (*events)[:0]

	a.switchWorkload(false)

	assert.Equal(t, []string{"Queued:release", "Basic:resize"}, *events)
	assert.False(t, s.UseQueued)
	assert.False(t, queued.configured)
	assert.True(t, basic.configured)
	assert.Equal(t, a.basic, a.active)

	// Switching to the already-active workload is a no-op.
	*events = (*events)[:0]
	a.switchWorkload(false)
	assert.Empty(t, *events)
}

func TestSwitchPreservesRenderResolution(t *testing.T) {
	s := settings.New()
	s.WindowWidth, s.WindowHeight = 800, 600
	s.RenderScale = 0.5
	s.UpdateRenderResolution()

	a, _, basic, _, _ := newTestApp(t, s)
	require.NoError(t, a.active.ResizeSwapChain(s.RenderWidth, s.RenderHeight, s.VSync))

	a.switchWorkload(false)
	assert.Equal(t, 400, basic.width)
	assert.Equal(t, 300, basic.height)
}

func TestResizeUpdatesProjectionAndSwapChain(t *testing.T) {
	s := settings.New()
	s.RenderScale = 0.5
	a, _, _, queued, _ := newTestApp(t, s)
	require.NoError(t, a.active.ResizeSwapChain(400, 300, false))

	a.onResize(1000, 500)

	assert.Equal(t, 1000, s.WindowWidth)
	assert.Equal(t, 500, s.WindowHeight)
	assert.Equal(t, 500, queued.width)
	assert.Equal(t, 250, queued.height)
	assert.InDelta(t, 2.0, s.Aspect(), 1e-6)
}

func TestTimedRunWritesStats(t *testing.T) {
	dir := t.TempDir()
	s := settings.New()
	s.CloseAfterSeconds = 0.05
	s.StatsFileName = filepath.Join(dir, "series.csv")
	s.StatsSummaryFileName = filepath.Join(dir, "summary.csv")

	base := time.Unix(0, 0)
	instants := make([]time.Time, 0, 16)
	for i := 0; i < 16; i++ {
		instants = append(instants, base.Add(time.Duration(i)*30*time.Millisecond))
	}
	a, win, _, queued, _ := newTestApp(t, s, WithClock(NewClock(fakeNow(instants...))))

	require.NoError(t, a.Run())

	assert.True(t, win.closed, "run must terminate itself after the deadline")
	assert.Positive(t, queued.renders)
	assert.FileExists(t, s.StatsFileName)
	assert.FileExists(t, s.StatsSummaryFileName)
}

func TestRenderReceivesSmoothedFrameTime(t *testing.T) {
	s := settings.New()
	s.CloseAfterSeconds = 0.025
	dir := t.TempDir()
	s.StatsFileName = filepath.Join(dir, "series.csv")
	s.StatsSummaryFileName = filepath.Join(dir, "summary.csv")

	base := time.Unix(0, 0)
	a, _, _, queued, _ := newTestApp(t, s, WithClock(NewClock(fakeNow(
		base,
		base.Add(10*time.Millisecond),
		base.Add(20*time.Millisecond),
		base.Add(30*time.Millisecond),
	))))

	require.NoError(t, a.Run())

	// The 10 ms raw frames reach the workload through the 0.2 blend: the
	// second dispatched frame time is 0.2*10ms, the third 3.6ms.
	require.Len(t, queued.frameTimes, 3)
	assert.Zero(t, queued.frameTimes[0])
	assert.InDelta(t, 0.002, queued.frameTimes[1], 1e-7)
	assert.InDelta(t, 0.0036, queued.frameTimes[2], 1e-7)
}

func TestFpsLabelLockedHidesNumber(t *testing.T) {
	s := settings.New()
	a, _, _, _, _ := newTestApp(t, s)

	assert.Equal(t, "60 FPS", a.fpsLabel(60))

	s.LockFrameRate = true
	assert.Equal(t, "(Locked)", a.fpsLabel(60))
}

func TestQueuedDefaultWhenBasicDisabled(t *testing.T) {
	events := &[]string{}
	queued := &fakeWorkload{name: "Queued", events: events}
	win := &fakeWindow{width: 800, height: 600}

	s := settings.New()
	a, err := NewApp(win, camera.NewOrbitCamera(), s, nil, queued)
	require.NoError(t, err)

	assert.Equal(t, workload.Workload(queued), a.active)
	assert.True(t, s.UseQueued)

	// Switching to the missing workload keeps the current one.
	a.switchWorkload(false)
	assert.Equal(t, workload.Workload(queued), a.active)
}
