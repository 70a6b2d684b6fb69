package workload

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/meteor/engine/camera"
	"github.com/Carmen-Shannon/meteor/engine/settings"
	"github.com/Carmen-Shannon/meteor/engine/sim"
)

// errNoSwapChain is returned by Render when the workload is not the active
// backend.
var errNoSwapChain = errors.New("workload: no swap chain configured")

type basicWorkloadImpl struct {
	mu *sync.Mutex

	gpu  *GPU
	sim  sim.Simulation
	belt *beltPipeline
	sc   *swapChain
}

var _ Workload = &basicWorkloadImpl{}

// NewBasicWorkload creates the synchronous workload: one frame encoded,
// submitted and presented per Render call, simulation updated on the render
// goroutine.
//
// Parameters:
//   - gpu: the shared GPU context
//   - s: the simulation to draw
//
// Returns:
//   - Workload: the newly created workload
//   - error: pipeline or buffer creation failure
func NewBasicWorkload(gpu *GPU, s sim.Simulation) (Workload, error) {
	belt, err := gpu.newBeltPipeline("Basic", s)
	if err != nil {
		return nil, fmt.Errorf("basic workload: %w", err)
	}
	return &basicWorkloadImpl{
		mu:   &sync.Mutex{},
		gpu:  gpu,
		sim:  s,
		belt: belt,
	}, nil
}

func (w *basicWorkloadImpl) Name() string {
	return "Basic"
}

func (w *basicWorkloadImpl) ResizeSwapChain(width, height int, vsync bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sc != nil {
		w.sc.release()
		w.sc = nil
	}
	sc, err := w.gpu.configureSwapChain(width, height, vsync)
	if err != nil {
		return err
	}
	w.sc = sc
	return nil
}

func (w *basicWorkloadImpl) ReleaseSwapChain() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sc != nil {
		w.sc.release()
		w.sc = nil
	}
}

func (w *basicWorkloadImpl) WaitForReadyToRender() {}

func (w *basicWorkloadImpl) Render(frameTime float32, cam camera.Camera, s *settings.Settings) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sc == nil {
		return errNoSwapChain
	}
	if s.VSync != w.sc.vsync {
		sc, err := w.gpu.configureSwapChain(w.sc.width, w.sc.height, s.VSync)
		if err != nil {
			return err
		}
		w.sc.release()
		w.sc = sc
	}

	w.sim.Update(frameTime, s.Animate)
	w.belt.upload(w.gpu.queue, cam.ViewProjectionMatrix(), w.sim.Instances())

	f, err := w.sc.beginFrame()
	if err != nil {
		return err
	}
	w.belt.draw(f.pass, uint32(w.sim.Count()))
	_, _, err = f.submit(w.gpu.queue, true)
	f.present(w.gpu.surface)
	return err
}

func (w *basicWorkloadImpl) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sc != nil {
		w.sc.release()
		w.sc = nil
	}
	if w.belt != nil {
		w.belt.release()
		w.belt = nil
	}
}
