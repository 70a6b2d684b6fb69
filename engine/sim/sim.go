// Package sim generates and animates the asteroid belt: a seeded ring of
// instances orbiting a disc, each with its own orbit speed, spin, and scale.
// The workloads read the per-instance transforms each frame and upload them
// to the GPU; the simulation itself never touches GPU state.
package sim

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// Belt dimensions, in world units. The camera's framing constants derive
// from these.
const (
	OrbitRadius = 450.0
	DiscRadius  = 120.0
)

// DefaultCount is the number of asteroid instances in a benchmark run.
const DefaultCount = 50000

// Vertex is one mesh vertex: position and face normal.
type Vertex struct {
	Position [3]float32
	_        float32 // std430 vec3 padding
	Normal   [3]float32
	_        float32
}

// Instance is the per-asteroid GPU payload: a column-major model matrix and
// an albedo color.
type Instance struct {
	Model [16]float32
	Color [4]float32
}

// asteroid is the mutable simulation state for one instance.
type asteroid struct {
	orbitAngle  float32
	orbitSpeed  float32
	orbitRadius float32
	height      float32
	spinAngle   float32
	spinSpeed   float32
	scale       float32
	color       [4]float32
}

// Simulation owns the asteroid belt state.
type Simulation interface {
	// Count returns the number of asteroid instances.
	Count() int

	// Update advances every asteroid by dt seconds and rebuilds the instance
	// transforms. When animate is false the orbit and spin angles hold still
	// but transforms are still rebuilt.
	//
	// Parameters:
	//   - dt: frame delta in seconds
	//   - animate: whether orbital motion advances
	Update(dt float32, animate bool)

	// UpdateRange is Update restricted to instances [start, end). Used by the
	// queued workload to fan the rebuild across a worker pool; ranges must
	// not overlap.
	//
	// Parameters:
	//   - start, end: half-open instance index range
	//   - dt: frame delta in seconds
	//   - animate: whether orbital motion advances
	UpdateRange(start, end int, dt float32, animate bool)

	// Instances returns the instance payload slice rebuilt by Update. The
	// slice is reused across frames; callers must copy or upload before the
	// next Update.
	Instances() []Instance

	// Mesh returns the shared asteroid mesh.
	//
	// Returns:
	//   - []Vertex: vertex data
	//   - []uint32: index data
	Mesh() ([]Vertex, []uint32)
}

type simulationImpl struct {
	asteroids []asteroid
	instances []Instance
	vertices  []Vertex
	indices   []uint32
}

var _ Simulation = &simulationImpl{}

// NewSimulation creates a belt of count asteroids from the given seed. The
// same seed always produces the same belt, which keeps benchmark runs
// comparable across processes and workloads.
//
// Parameters:
//   - seed: PRNG seed
//   - count: number of asteroid instances
//
// Returns:
//   - Simulation: the newly created simulation
func NewSimulation(seed int64, count int) Simulation {
	rng := rand.New(rand.NewSource(seed))

	s := &simulationImpl{
		asteroids: make([]asteroid, count),
		instances: make([]Instance, count),
	}
	for i := range s.asteroids {
		shade := 0.3 + 0.5*rng.Float32()
		s.asteroids[i] = asteroid{
			orbitAngle:  2 * math32.Pi * rng.Float32(),
			orbitSpeed:  0.02 + 0.08*rng.Float32(),
			orbitRadius: OrbitRadius + DiscRadius*(2*rng.Float32()-1),
			height:      0.4 * DiscRadius * (2*rng.Float32() - 1),
			spinAngle:   2 * math32.Pi * rng.Float32(),
			spinSpeed:   0.5 + 2.5*rng.Float32(),
			scale:       0.6 + 1.8*rng.Float32(),
			color:       [4]float32{shade, shade * 0.9, shade * 0.75, 1},
		}
	}
	s.vertices, s.indices = buildRockMesh()
	s.UpdateRange(0, count, 0, false)
	return s
}

func (s *simulationImpl) Count() int {
	return len(s.asteroids)
}

func (s *simulationImpl) Update(dt float32, animate bool) {
	s.UpdateRange(0, len(s.asteroids), dt, animate)
}

func (s *simulationImpl) UpdateRange(start, end int, dt float32, animate bool) {
	for i := start; i < end; i++ {
		a := &s.asteroids[i]
		if animate {
			a.orbitAngle += a.orbitSpeed * dt
			a.spinAngle += a.spinSpeed * dt
		}

		px := a.orbitRadius * math32.Cos(a.orbitAngle)
		pz := a.orbitRadius * math32.Sin(a.orbitAngle)

		cy := math32.Cos(a.spinAngle)
		sy := math32.Sin(a.spinAngle)
		sc := a.scale

		// Model = T(orbit position) * RotY(spin) * S(scale), column-major.
		m := &s.instances[i].Model
		m[0], m[1], m[2], m[3] = cy*sc, 0, -sy*sc, 0
		m[4], m[5], m[6], m[7] = 0, sc, 0, 0
		m[8], m[9], m[10], m[11] = sy*sc, 0, cy*sc, 0
		m[12], m[13], m[14], m[15] = px, a.height, pz, 1

		s.instances[i].Color = a.color
	}
}

func (s *simulationImpl) Instances() []Instance {
	return s.instances
}

func (s *simulationImpl) Mesh() ([]Vertex, []uint32) {
	return s.vertices, s.indices
}

// buildRockMesh returns a unit cube with per-face normals. Instance scale
// variation does the rest of the work of making the belt look uneven.
func buildRockMesh() ([]Vertex, []uint32) {
	faces := [6]struct {
		normal [3]float32
		corner [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for _, c := range f.corner {
			vertices = append(vertices, Vertex{Position: c, Normal: f.normal})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}
