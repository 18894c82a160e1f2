package flightpath

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Vector3 is a 3-D double-precision vector used throughout the package
// for positions, velocities, and accelerations in system coordinates.
type Vector3 struct {
	X, Y, Z float64
}

// NewVector3 builds a Vector3 from its three components.
func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns the component-wise sum of v and o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference of v and o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v multiplied by the scalar s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the inner product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v x o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// SqNorm returns the squared Euclidean norm of v. Preferred over
// Norm()*Norm() when only a comparison is needed, as in SOI containment
// checks (spec.md §4.4).
func (v Vector3) SqNorm() float64 {
	return v.Dot(v)
}

// Norm returns the Euclidean norm of v.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.SqNorm())
}

// Normalized returns v scaled to unit length. The zero vector is
// returned unchanged, mirroring the teacher's unit() guard in math.go
// against division by a near-zero norm.
func (v Vector3) Normalized() Vector3 {
	n := v.Norm()
	if scalar.EqualWithinAbs(n, 0, 1e-12) {
		return Vector3{}
	}
	return v.Scale(1 / n)
}

// Equals returns whether v and o are componentwise identical.
func (v Vector3) Equals(o Vector3) bool {
	return v.X == o.X && v.Y == o.Y && v.Z == o.Z
}

// IsZero returns whether v is exactly the zero vector.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
