package wireframe

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mat3 is a 3x3 matrix stored in row-major order. It is a value type:
// every operation returns a new Mat3 and leaves its operands untouched.
// The zero value is the zero matrix, use Identity3 for the identity.
type Mat3 struct {
	x [9]float64
}

// NewMat3 returns a new Mat3 populated with the 9 values of a passed
// in row-major form. It panics if len(a) != 9.
func NewMat3(a []float64) Mat3 {
	if len(a) != 9 {
		panic("Mat3 is initialized with 9 values")
	}
	var m Mat3
	copy(m.x[:], a)
	return m
}

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{x: [9]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}}
}

// RotateX returns a right-handed rotation matrix of angle radians about the X axis.
func RotateX(angle float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{x: [9]float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}}
}

// RotateY returns a right-handed rotation matrix of angle radians about the Y axis.
func RotateY(angle float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{x: [9]float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}}
}

// RotateZ returns a right-handed rotation matrix of angle radians about the Z axis.
func RotateZ(angle float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{x: [9]float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}}
}

// Euler returns the rotation that first rotates about X, then Y, then Z:
//
//	RotateZ(z) * RotateY(y) * RotateX(x)
func Euler(x, y, z float64) Mat3 {
	return RotateZ(z).Mul(RotateY(y)).Mul(RotateX(x))
}

// At returns the element at row i, column j. It panics if i or j are outside [0, 3).
func (m Mat3) At(i, j int) float64 {
	if uint(i) >= 3 || uint(j) >= 3 {
		panic("Mat3 index out of range")
	}
	return m.x[i*3+j]
}

// Slice returns a row-major copy of the matrix elements.
func (m Mat3) Slice() []float64 {
	s := make([]float64, 9)
	copy(s, m.x[:])
	return s
}

// Mul returns the matrix product m*b.
func (m Mat3) Mul(b Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m.x[i*3+k] * b.x[k*3+j]
			}
			r.x[i*3+j] = sum
		}
	}
	return r
}

// MulVec applies the matrix to v and returns the result.
func (m Mat3) MulVec(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: m.x[0]*v.X + m.x[1]*v.Y + m.x[2]*v.Z,
		Y: m.x[3]*v.X + m.x[4]*v.Y + m.x[5]*v.Z,
		Z: m.x[6]*v.X + m.x[7]*v.Y + m.x[8]*v.Z,
	}
}

// Transpose returns the transpose of m. For a rotation matrix this is its inverse.
func (m Mat3) Transpose() Mat3 {
	return Mat3{x: [9]float64{
		m.x[0], m.x[3], m.x[6],
		m.x[1], m.x[4], m.x[7],
		m.x[2], m.x[5], m.x[8],
	}}
}

// EqualWithin reports whether every element of m and b differ by at most tol.
func (m Mat3) EqualWithin(b Mat3, tol float64) bool {
	for i := range m.x {
		if math.Abs(m.x[i]-b.x[i]) > tol {
			return false
		}
	}
	return true
}
