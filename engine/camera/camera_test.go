package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestZoomByDeltaClampsRadius(t *testing.T) {
	c := NewOrbitCamera()
	c.SetView(0, 0, 0, 100, 10, 200, 0, 1)

	c.ZoomByDelta(1000)
	assert.Equal(t, float32(200), c.Radius())

	c.ZoomByDelta(-1000)
	assert.Equal(t, float32(10), c.Radius())
}

func TestZoomByScaleApproachesMinimum(t *testing.T) {
	c := NewOrbitCamera()
	c.SetView(0, 0, 0, 100, 10, 200, 0, 1)

	// Repeated halving converges on the minimum and never undershoots it.
	for i := 0; i < 5; i++ {
		c.ZoomByScale(0.5)
		assert.GreaterOrEqual(t, c.Radius(), float32(10))
	}
	assert.Equal(t, float32(10), c.Radius())
}

func TestLatitudeClampsAwayFromPoles(t *testing.T) {
	c := NewOrbitCamera()
	c.SetView(0, 0, 0, 100, 10, 200, 0, 1)

	c.OrbitLatitude(100)
	assert.InDelta(t, math32.Pi-latitudeLimit, c.Latitude(), 1e-6)

	c.OrbitLatitude(-200)
	assert.InDelta(t, latitudeLimit, c.Latitude(), 1e-6)
}

func TestLongitudeUnbounded(t *testing.T) {
	c := NewOrbitCamera()
	c.SetView(0, 0, 0, 100, 10, 200, 1, 1)

	c.OrbitLongitude(10)
	assert.InDelta(t, 11, c.Longitude(), 1e-5)
	c.OrbitLongitude(-30)
	assert.InDelta(t, -19, c.Longitude(), 1e-4)
}

func TestEyeDerivedFromSphericalCoordinates(t *testing.T) {
	c := NewOrbitCamera()
	c.SetView(0, 0, 0, 10, 1, 100, 0, math32.Pi/2)

	x, y, z := c.Eye()
	assert.InDelta(t, 10, x, 1e-4)
	assert.InDelta(t, 0, y, 1e-4)
	assert.InDelta(t, 0, z, 1e-4)

	c.SetView(0, 0, 0, 10, 1, 100, math32.Pi/2, math32.Pi/2)
	x, y, z = c.Eye()
	assert.InDelta(t, 0, x, 1e-4)
	assert.InDelta(t, 0, y, 1e-4)
	assert.InDelta(t, 10, z, 1e-4)
}

func TestProjectionWidensFovBelowSquareAspect(t *testing.T) {
	fov := float32(math32.Pi / 2)

	square := NewOrbitCamera()
	square.SetProjection(fov, 1.0)
	wide := NewOrbitCamera()
	wide.SetProjection(fov, 2.0)

	// Above aspect 1 the vertical FOV narrows (fov/aspect), which raises the
	// [5] focal term relative to the square projection.
	squareF := square.ProjectionMatrix()[5]
	wideF := wide.ProjectionMatrix()[5]
	assert.InDelta(t, 1/math32.Tan(fov/2), squareF, 1e-5)
	assert.InDelta(t, 1/math32.Tan(fov/4), wideF, 1e-5)
	assert.Greater(t, wideF, squareF)
}

func TestProjectionReversedDepthRange(t *testing.T) {
	c := NewOrbitCamera()
	c.SetProjection(1.2, 1.5)

	// near=10000, far=0.1: far/(near-far) stays near zero and positive.
	m := c.ProjectionMatrix()
	assert.InDelta(t, 0.1/(10000-0.1), m[10], 1e-9)
	assert.Equal(t, float32(-1), m[11])
}

func TestPointerDragOrbitsCamera(t *testing.T) {
	c := NewOrbitCamera()
	c.SetView(0, 0, 0, 100, 10, 200, 1, 1)

	c.AddPointer(0)
	c.ProcessPointerFrame(0, 0, 0)
	c.ProcessPointerFrame(0, 100, 50)

	// Horizontal drag orbits longitude, vertical drag orbits latitude with
	// inverted sign.
	assert.InDelta(t, 1+100*manipulationRate, c.Longitude(), 1e-5)
	assert.InDelta(t, 1-50*manipulationRate, c.Latitude(), 1e-5)

	c.RemovePointer(0)
}

func TestPinchZoomsReciprocally(t *testing.T) {
	c := NewOrbitCamera()
	c.SetView(0, 0, 0, 100, 10, 200, 0, 1)

	// Doubling the pinch span halves the radius.
	c.AddPointer(1)
	c.AddPointer(2)
	c.ProcessPointerFrame(1, -50, 0)
	c.ProcessPointerFrame(2, 50, 0)
	c.ProcessPointerFrame(1, -100, 0)

	assert.Less(t, c.Radius(), float32(100))

	c.RemovePointer(1)
	c.RemovePointer(2)
}

func TestViewProjectionIsProduct(t *testing.T) {
	c := NewOrbitCamera()
	c.SetView(1, 2, 3, 50, 10, 100, 0.5, 1.2)
	c.SetProjection(1.0, 1.5)

	vp := c.ViewProjectionMatrix()
	p := c.ProjectionMatrix()
	v := c.ViewMatrix()

	// Spot check one column of the product.
	for row := 0; row < 4; row++ {
		var want float32
		for k := 0; k < 4; k++ {
			want += p[k*4+row] * v[12+k]
		}
		assert.InDelta(t, want, vp[12+row], 1e-4)
	}
}
