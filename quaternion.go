package flightpath

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// Quaternion represents a rotation in 3-space. It is built exclusively
// via NewRotationBetween, matching the orbit-plane/periapsis rotation
// construction named in spec.md §4.2: "a rotation taking unit vector a
// to unit vector b".
type Quaternion struct {
	w, x, y, z float64
	rotMatrix  *mat.Dense // cached 3x3 application matrix
}

// identityQuaternion is the no-op rotation, used when a and b are
// already parallel.
func identityQuaternion() Quaternion {
	return Quaternion{w: 1}
}

// NewRotationBetween builds the Quaternion that rotates unit vector a
// onto unit vector b. a and b are expected to already be normalized;
// callers within this package always pass Normalized() vectors.
func NewRotationBetween(a, b Vector3) Quaternion {
	axis := a.Cross(b)
	cosθ := a.Dot(b)

	if scalar.EqualWithinAbs(cosθ, 1, 1e-12) {
		// a and b already coincide.
		return identityQuaternion()
	}
	if scalar.EqualWithinAbs(cosθ, -1, 1e-12) {
		// a and b are anti-parallel; pick any axis orthogonal to a.
		ortho := Vector3{1, 0, 0}
		if math.Abs(a.X) > 0.9 {
			ortho = Vector3{0, 1, 0}
		}
		axis = a.Cross(ortho).Normalized()
		return quaternionFromAxisAngle(axis, math.Pi)
	}

	// Half-angle construction, avoids an explicit acos/sqrt split.
	s := math.Sqrt((1 + cosθ) * 2)
	invs := 1 / s
	q := Quaternion{
		w: s * 0.5,
		x: axis.X * invs,
		y: axis.Y * invs,
		z: axis.Z * invs,
	}
	return q.normalized()
}

func quaternionFromAxisAngle(axis Vector3, angle float64) Quaternion {
	sinHalf, cosHalf := math.Sincos(angle / 2)
	return Quaternion{
		w: cosHalf,
		x: axis.X * sinHalf,
		y: axis.Y * sinHalf,
		z: axis.Z * sinHalf,
	}
}

func (q Quaternion) normalized() Quaternion {
	n := math.Sqrt(q.w*q.w + q.x*q.x + q.y*q.y + q.z*q.z)
	if scalar.EqualWithinAbs(n, 0, 1e-12) {
		return identityQuaternion()
	}
	return Quaternion{q.w / n, q.x / n, q.y / n, q.z / n, nil}
}

// matrix lazily builds (and caches) the 3x3 rotation matrix equivalent
// of q, applied the same way the teacher's rotation.go applies its
// Euler-angle matrices via MxV33.
func (q *Quaternion) matrix() *mat.Dense {
	if q.rotMatrix != nil {
		return q.rotMatrix
	}
	w, x, y, z := q.w, q.x, q.y, q.z
	m := mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	})
	q.rotMatrix = m
	return m
}

// Rotate applies q to v, grounded on the teacher's MxV33 matrix-vector
// application in rotation.go.
func (q *Quaternion) Rotate(v Vector3) Vector3 {
	m := q.matrix()
	vVec := mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
	var rVec mat.VecDense
	rVec.MulVec(m, vVec)
	return Vector3{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// Inverse returns the conjugate rotation (valid because q is always
// unit-length by construction).
func (q Quaternion) Inverse() Quaternion {
	return Quaternion{q.w, -q.x, -q.y, -q.z, nil}
}
