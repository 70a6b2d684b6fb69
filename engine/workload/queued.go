package workload

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/meteor/common"
	"github.com/Carmen-Shannon/meteor/engine/camera"
	"github.com/Carmen-Shannon/meteor/engine/settings"
	"github.com/Carmen-Shannon/meteor/engine/sim"
)

// maxFramesInFlight is the queued workload's frame buffering depth. Render
// may run this many frames ahead of the GPU before WaitForReadyToRender
// blocks.
const maxFramesInFlight = 3

type queuedWorkloadImpl struct {
	mu *sync.Mutex

	gpu  *GPU
	sim  sim.Simulation
	belt *beltPipeline
	sc   *swapChain

	indirectBuffer *wgpu.Buffer

	// updatePool fans the per-instance transform rebuild across a bounded
	// set of reusable workers. Workers persist across frames; a WaitGroup
	// provides the per-frame barrier.
	updatePool worker.DynamicWorkerPool
	workers    int

	// Submission indices of in-flight frames, indexed by frame slot. A
	// slot's index is waited on before the slot is reused.
	pending      [maxFramesInFlight]wgpu.SubmissionIndex
	pendingValid [maxFramesInFlight]bool
	frameCursor  int
}

var _ Workload = &queuedWorkloadImpl{}

// NewQueuedWorkload creates the buffered workload: up to maxFramesInFlight
// frames are encoded and submitted ahead of GPU completion, and the
// simulation update can fan out across a worker pool.
//
// Parameters:
//   - gpu: the shared GPU context
//   - s: the simulation to draw
//
// Returns:
//   - Workload: the newly created workload
//   - error: pipeline or buffer creation failure
func NewQueuedWorkload(gpu *GPU, s sim.Simulation) (Workload, error) {
	belt, err := gpu.newBeltPipeline("Queued", s)
	if err != nil {
		return nil, fmt.Errorf("queued workload: %w", err)
	}

	_, indices := s.Mesh()
	indirectBuffer, err := gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Queued Indirect Buffer",
		Size:  20,
		Usage: wgpu.BufferUsageIndirect | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		belt.release()
		return nil, fmt.Errorf("queued workload: create indirect buffer: %w", err)
	}
	args := [5]uint32{uint32(len(indices)), uint32(s.Count()), 0, 0, 0}
	gpu.queue.WriteBuffer(indirectBuffer, 0, common.SliceToBytes(args[:]))

	workers := max(runtime.NumCPU()-1, 1)
	return &queuedWorkloadImpl{
		mu:             &sync.Mutex{},
		gpu:            gpu,
		sim:            s,
		belt:           belt,
		indirectBuffer: indirectBuffer,
		updatePool:     worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
		workers:        workers,
	}, nil
}

func (w *queuedWorkloadImpl) Name() string {
	return "Queued"
}

func (w *queuedWorkloadImpl) ResizeSwapChain(width, height int, vsync bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.waitAll()
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

func (w *queuedWorkloadImpl) ReleaseSwapChain() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.waitAll()
	if w.sc != nil {
		w.sc.release()
		w.sc = nil
	}
}

// WaitForReadyToRender blocks until the frame slot about to be reused has
// completed on the GPU.
func (w *queuedWorkloadImpl) WaitForReadyToRender() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.waitSlot(w.frameCursor)
}

// waitSlot blocks on the slot's submission index if one is outstanding.
// Caller must hold the mutex.
func (w *queuedWorkloadImpl) waitSlot(slot int) {
	if !w.pendingValid[slot] {
		return
	}
	w.gpu.device.Poll(true, &wgpu.WrappedSubmissionIndex{
		Queue:           w.gpu.queue,
		SubmissionIndex: w.pending[slot],
	})
	w.pendingValid[slot] = false
}

// waitAll drains every in-flight frame. Caller must hold the mutex.
func (w *queuedWorkloadImpl) waitAll() {
	for slot := range w.pending {
		w.waitSlot(slot)
	}
}

func (w *queuedWorkloadImpl) Render(frameTime float32, cam camera.Camera, s *settings.Settings) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sc == nil {
		return errNoSwapChain
	}
	if s.VSync != w.sc.vsync {
		w.waitAll()
		sc, err := w.gpu.configureSwapChain(w.sc.width, w.sc.height, s.VSync)
		if err != nil {
			return err
		}
		w.sc.release()
		w.sc = sc
	}

	w.updateSimulation(frameTime, s)
	w.belt.upload(w.gpu.queue, cam.ViewProjectionMatrix(), w.sim.Instances())

	f, err := w.sc.beginFrame()
	if err != nil {
		return err
	}
	if s.ExecuteIndirect {
		w.belt.drawIndirect(f.pass, w.indirectBuffer)
	} else {
		w.belt.draw(f.pass, uint32(w.sim.Count()))
	}

	index, submitted, err := f.submit(w.gpu.queue, s.SubmitRendering)
	if submitted {
		w.pending[w.frameCursor] = index
		w.pendingValid[w.frameCursor] = true
		w.frameCursor = (w.frameCursor + 1) % maxFramesInFlight
	}
	f.present(w.gpu.surface)
	return err
}

// updateSimulation rebuilds the instance transforms, splitting the belt
// across the worker pool when multithreaded rendering is on.
func (w *queuedWorkloadImpl) updateSimulation(frameTime float32, s *settings.Settings) {
	count := w.sim.Count()
	if !s.MultithreadedRendering || w.workers < 2 || count < w.workers {
		w.sim.Update(frameTime, s.Animate)
		return
	}

	var wg sync.WaitGroup
	chunk := (count + w.workers - 1) / w.workers
	taskID := 0
	for start := 0; start < count; start += chunk {
		end := min(start+chunk, count)
		wg.Add(1)
		startCap, endCap := start, end
		id := taskID
		taskID++
		w.updatePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				w.sim.UpdateRange(startCap, endCap, frameTime, s.Animate)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (w *queuedWorkloadImpl) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.waitAll()
	if w.sc != nil {
		w.sc.release()
		w.sc = nil
	}
	if w.indirectBuffer != nil {
		w.indirectBuffer.Release()
		w.indirectBuffer = nil
	}
	if w.belt != nil {
		w.belt.release()
		w.belt = nil
	}
}
