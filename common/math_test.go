package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = 7
	}
	Identity(m)

	for i, v := range m {
		if i%5 == 0 {
			assert.Equal(t, float32(1), v, "diagonal at %d", i)
		} else {
			assert.Equal(t, float32(0), v, "off-diagonal at %d", i)
		}
	}
}

func TestMul4IdentityIsNeutral(t *testing.T) {
	id := make([]float32, 16)
	Identity(id)
	m := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}

	out := make([]float32, 16)
	Mul4(out, id, m)
	assert.Equal(t, m, out)
	Mul4(out, m, id)
	assert.Equal(t, m, out)
}

func TestMul4Aliasing(t *testing.T) {
	a := []float32{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 1,
	}
	want := make([]float32, 16)
	Mul4(want, a, a)

	// Writing the result over an input must not corrupt the product.
	got := append([]float32(nil), a...)
	Mul4(got, got, a)
	assert.Equal(t, want, got)
}

func TestPerspectiveRHReversedZ(t *testing.T) {
	m := make([]float32, 16)
	fovY := float32(math32.Pi / 3)
	PerspectiveRH(m, fovY, 2.0, 10000, 0.1)

	f := 1 / math32.Tan(fovY/2)
	assert.InDelta(t, f/2, m[0], 1e-5)
	assert.InDelta(t, f, m[5], 1e-5)
	assert.Equal(t, float32(-1), m[11])
	assert.Equal(t, float32(0), m[15])
	// near > far flips the depth mapping: the [10] term goes positive.
	assert.Positive(t, m[10])
}

func TestLookAtTransformsEyeToOrigin(t *testing.T) {
	m := make([]float32, 16)
	LookAt(m, 5, 3, -2, 0, 0, 0, 0, 1, 0)

	// The eye maps to the view-space origin.
	x := m[0]*5 + m[4]*3 + m[8]*(-2) + m[12]
	y := m[1]*5 + m[5]*3 + m[9]*(-2) + m[13]
	z := m[2]*5 + m[6]*3 + m[10]*(-2) + m[14]
	assert.InDelta(t, 0, x, 1e-5)
	assert.InDelta(t, 0, y, 1e-5)
	assert.InDelta(t, 0, z, 1e-5)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(5), Clamp(3, 5, 10))
	assert.Equal(t, float32(10), Clamp(30, 5, 10))
	assert.Equal(t, float32(7), Clamp(7, 5, 10))
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes[float32](nil))

	data := []uint32{0x04030201}
	b := SliceToBytes(data)
	assert.Len(t, b, 4)
	assert.Equal(t, byte(0x01), b[0])

	var m [16]float32
	assert.Len(t, SliceToBytes(m[:]), 64)
}

func TestStructToBytes(t *testing.T) {
	v := [16]float32{}
	assert.Len(t, StructToBytes(&v), 64)
}
