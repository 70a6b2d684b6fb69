// Command meteor runs the asteroid belt benchmark: a seeded field of
// instanced rocks rendered through one of two interchangeable WebGPU
// workloads, with an orbit camera driven by pointer gestures.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Carmen-Shannon/meteor/engine/app"
	"github.com/Carmen-Shannon/meteor/engine/camera"
	"github.com/Carmen-Shannon/meteor/engine/settings"
	"github.com/Carmen-Shannon/meteor/engine/sim"
	"github.com/Carmen-Shannon/meteor/engine/window"
	"github.com/Carmen-Shannon/meteor/engine/workload"
)

// simSeed fixes the belt layout so runs are comparable across processes and
// workloads.
const simSeed = 1337

func main() {
	s := settings.New()
	if err := s.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		fmt.Fprint(os.Stderr, settings.Usage)
		os.Exit(1)
	}
	if s.NoBasic && s.NoQueued {
		fmt.Fprintln(os.Stderr, "error: all workloads are disabled")
		os.Exit(1)
	}

	winOptions := []window.WindowBuilderOption{
		window.WithTitle("Meteor"),
		window.WithWidth(s.WindowWidth),
		window.WithHeight(s.WindowHeight),
	}
	if !s.Windowed {
		winOptions = append(winOptions, window.WithFullscreen())
	}
	win := window.NewWindow(winOptions...)
	defer win.Close()

	gpu, err := workload.NewGPU(win.SurfaceDescriptor(), s.Warp)
	if err != nil {
		log.Fatalf("gpu init: %v", err)
	}

	simulation := sim.NewSimulation(simSeed, sim.DefaultCount)

	var basic, queued workload.Workload
	if !s.NoBasic {
		basic, err = workload.NewBasicWorkload(gpu, simulation)
		if err != nil {
			log.Fatalf("basic workload init: %v", err)
		}
		defer basic.Destroy()
	}
	if !s.NoQueued {
		queued, err = workload.NewQueuedWorkload(gpu, simulation)
		if err != nil {
			log.Fatalf("queued workload init: %v", err)
		}
		defer queued.Destroy()
	}

	cam := camera.NewOrbitCamera()

	a, err := app.NewApp(win, cam, s, basic, queued)
	if err != nil {
		log.Fatalf("app init: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}
