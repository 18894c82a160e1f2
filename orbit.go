package flightpath

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

// orbitRotationCache holds the two rotations described in spec.md
// §4.2 ("plane rotation" and "periapsis rotation"), computed once from
// an Orbit's originating (r0, v0) pair. It is shared by pointer across
// every Orbit value produced by Predict/Step, so a predicted copy
// never has to recompute it.
type orbitRotationCache struct {
	plane *Quaternion
	peri  *Quaternion
}

// Orbit is an osculating two-body orbit about a primary Body. Elements
// (a, e, i, raan, argp) are constant between calls to Step/Predict;
// only the true anomaly advances with time.
type Orbit struct {
	primary *Body

	a, e, i, raan, argp, nu float64

	hasInitialState bool
	r0, v0          Vector3 // originating state, fixed for this orbit's lifetime
	nu0             float64 // true anomaly at r0, v0

	rotCache *orbitRotationCache
}

// NewOrbitFromElements builds an Orbit directly from classical
// elements. Because no (r0, v0) pair accompanies it, Position and
// Velocity fail NotSupported on this Orbit until rotations built from
// elements alone are supported (spec.md §9).
func NewOrbitFromElements(primary *Body, a, e, i, raan, argp, nu float64) (*Orbit, error) {
	if primary == nil {
		return nil, newError("NewOrbitFromElements", InvalidArgument)
	}
	return &Orbit{
		primary:  primary,
		a:        a,
		e:        e,
		i:        i,
		raan:     raan,
		argp:     argp,
		nu:       nu,
		rotCache: &orbitRotationCache{},
	}, nil
}

// NewOrbitFromRV builds an Orbit from a state vector, deriving
// classical elements per spec.md §4.2.
func NewOrbitFromRV(primary *Body, r, v Vector3) (*Orbit, error) {
	if primary == nil || r.IsZero() {
		return nil, newError("NewOrbitFromRV", InvalidArgument)
	}
	u := primary.GM()

	h := r.Cross(v)
	n := Vector3{X: -h.Y, Y: h.X}
	eVec := v.Cross(h).Scale(1 / u).Sub(r.Normalized())
	ecc := eVec.Norm()

	energy := v.SqNorm()*0.5 - u/r.Norm()
	a := -u / (2 * energy)
	inc := math.Acos(h.Z / h.Norm())

	equatorial := scalar.EqualWithinAbs(inc, 0, 1e-9)

	var raan float64
	if equatorial {
		raan = 0
	} else {
		raan = math.Acos(n.X / n.Norm())
		if n.Y < 0 {
			raan = 2*math.Pi - raan
		}
	}

	var argp float64
	if equatorial {
		argp = math.Acos(eVec.X / ecc)
	} else {
		argp = math.Acos(n.Dot(eVec) / (n.Norm() * ecc))
		if eVec.Z < 0 {
			argp = 2*math.Pi - argp
		}
	}

	nu := math.Acos(eVec.Dot(r) / (ecc * r.Norm()))
	if r.Dot(v) < 0 {
		nu = 2*math.Pi - nu
	}

	return &Orbit{
		primary:         primary,
		a:               a,
		e:               ecc,
		i:               inc,
		raan:            raan,
		argp:            argp,
		nu:              nu,
		hasInitialState: true,
		r0:              r,
		v0:              v,
		nu0:             nu,
		rotCache:        &orbitRotationCache{},
	}, nil
}

// SemiMajorAxis returns the orbit's semi-major axis.
func (o *Orbit) SemiMajorAxis() float64 { return o.a }

// Eccentricity returns the orbit's eccentricity.
func (o *Orbit) Eccentricity() float64 { return o.e }

// Inclination returns the orbit's inclination, radians, normalized to
// [0, 2π) on read for elliptic orbits per spec.md §3.
func (o *Orbit) Inclination() float64 { return o.normalizedOnRead(o.i) }

// RAAN returns the orbit's right ascension of the ascending node
// (longitude of ascending node), radians, normalized to [0, 2π) on
// read for elliptic orbits.
func (o *Orbit) RAAN() float64 { return o.normalizedOnRead(o.raan) }

// ArgumentOfPeriapsis returns the angle from the ascending node to
// periapsis within the orbital plane, radians, normalized to [0, 2π)
// on read for elliptic orbits.
func (o *Orbit) ArgumentOfPeriapsis() float64 { return o.normalizedOnRead(o.argp) }

// TrueAnomaly returns the orbit's current true anomaly, radians,
// normalized to [0, 2π) on read for elliptic orbits.
func (o *Orbit) TrueAnomaly() float64 { return o.normalizedOnRead(o.nu) }

// normalizedOnRead applies spec.md §3's "angles normalized to [0, 2π)
// on read for elliptic orbits" invariant; hyperbolic orbits (e >= 1)
// return the stored angle unchanged, since [0, 2π) wrapping has no
// defined meaning for an unbound true anomaly.
func (o *Orbit) normalizedOnRead(angle float64) float64 {
	if o.e < 1 {
		return normalizeAngle(angle)
	}
	return angle
}

// Periapsis returns a(1-e).
func (o *Orbit) Periapsis() float64 { return o.a * (1 - o.e) }

// Apoapsis returns a(1+e) for e < 1, or -1 (invalid) otherwise.
func (o *Orbit) Apoapsis() float64 {
	if o.e >= 1 {
		return -1
	}
	return o.a * (1 + o.e)
}

// Semiparameter returns a(1-e^2).
func (o *Orbit) Semiparameter() float64 {
	return o.a * (1 - o.e*o.e)
}

// Period returns the orbital period, failing NoPeriod for e >= 1.
func (o *Orbit) Period() (time.Duration, error) {
	if o.e >= 1 {
		return 0, newError("Orbit.Period", NoPeriod)
	}
	u := o.primary.GM()
	seconds := 2 * math.Pi * math.Sqrt(o.a*o.a*o.a/u)
	return time.Duration(seconds * float64(time.Second)), nil
}

// MeanMotion returns sqrt(u/a^3), failing NoPeriod for e >= 1.
func (o *Orbit) MeanMotion() (float64, error) {
	if o.e >= 1 {
		return 0, newError("Orbit.MeanMotion", NoPeriod)
	}
	return o.meanMotionAbs(), nil
}

// meanMotionAbs computes mean motion for any conic section, using
// |a| so it remains defined (and usable by Step) for hyperbolic
// orbits, where a < 0.
func (o *Orbit) meanMotionAbs() float64 {
	u := o.primary.GM()
	return math.Sqrt(u / math.Abs(o.a*o.a*o.a))
}

// SpeedAtDistance returns sqrt(u(2/d - 1/a)).
func (o *Orbit) SpeedAtDistance(d float64) float64 {
	u := o.primary.GM()
	return math.Sqrt(u * (2/d - 1/o.a))
}

// MinSpeed returns SpeedAtDistance(apoapsis), failing NoMinSpeed for
// e >= 1.
func (o *Orbit) MinSpeed() (float64, error) {
	if o.e >= 1 {
		return 0, newError("Orbit.MinSpeed", NoMinSpeed)
	}
	return o.SpeedAtDistance(o.Apoapsis()), nil
}

// MaxSpeed returns SpeedAtDistance(periapsis).
func (o *Orbit) MaxSpeed() float64 {
	return o.SpeedAtDistance(o.Periapsis())
}

// ensureRotations lazily computes and caches the plane and periapsis
// rotations from the orbit's originating (r0, v0), per spec.md §4.2.
// An orbit built from elements alone (hasInitialState == false) fails
// NotSupported, since no (r0, v0) exists to derive a frame from.
func (o *Orbit) ensureRotations() error {
	if !o.hasInitialState {
		return newError("Orbit.ensureRotations", NotSupported)
	}
	if o.rotCache.plane != nil {
		return nil
	}
	normal := o.r0.Cross(o.v0).Normalized()
	plane := NewRotationBetween(Vector3{Z: 1}, normal)

	p := o.Semiparameter()
	reconstructed := plane.Rotate(localPosition(p, o.e, o.nu0))
	peri := NewRotationBetween(reconstructed.Normalized(), o.r0.Normalized())

	o.rotCache.plane = &plane
	o.rotCache.peri = &peri
	return nil
}

// Position returns the orbit's current position about its primary.
func (o *Orbit) Position() (Vector3, error) {
	if err := o.ensureRotations(); err != nil {
		return Vector3{}, err
	}
	local := localPosition(o.Semiparameter(), o.e, o.nu)
	return o.rotCache.peri.Rotate(o.rotCache.plane.Rotate(local)), nil
}

// Velocity returns the orbit's current velocity about its primary.
func (o *Orbit) Velocity() (Vector3, error) {
	if err := o.ensureRotations(); err != nil {
		return Vector3{}, err
	}
	u := o.primary.GM()
	local := localVelocity(u, o.Semiparameter(), o.e, o.nu)
	return o.rotCache.peri.Rotate(o.rotCache.plane.Rotate(local)), nil
}

// localPosition evaluates the conic in its own plane frame, x-axis
// toward periapsis, z perpendicular to the plane.
func localPosition(p, e, nu float64) Vector3 {
	r := p / (1 + e*math.Cos(nu))
	return Vector3{X: r * math.Cos(nu), Y: r * math.Sin(nu)}
}

// localVelocity is the plane-frame velocity analogue of localPosition.
func localVelocity(u, p, e, nu float64) Vector3 {
	g := math.Sqrt(u / p)
	return Vector3{X: -g * math.Sin(nu), Y: g * (e + math.Cos(nu))}
}

// Step advances the orbit in place by dt seconds: mean anomaly grows
// by mean_motion*dt, is normalized to [0, 2π) in the elliptic case,
// and is resolved back to a new true anomaly through the Kepler
// solver. Cached rotations are untouched (elements never change).
func (o *Orbit) Step(dt float64) error {
	e0 := eccentricFromTrue(o.e, o.nu)
	m0 := meanFromEccentric(o.e, e0)
	m1 := m0 + o.meanMotionAbs()*dt
	if o.e < 1 {
		m1 = normalizeAngle(m1)
	}
	e1, err := solveEccentricAnomaly(o.e, m1)
	if err != nil {
		return err
	}
	o.nu = trueFromEccentric(o.e, e1)
	if o.e < 1 {
		o.nu = normalizeAngle(o.nu)
	}
	return nil
}

// Predict returns a copy of the orbit advanced by dt, without
// mutating the receiver. The copy shares the receiver's rotation
// cache pointer, so it sits in the same spatial frame without
// recomputing anything.
func (o *Orbit) Predict(dt float64) (*Orbit, error) {
	cp := *o
	if err := cp.Step(dt); err != nil {
		return nil, err
	}
	return &cp, nil
}

func normalizeAngle(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x
}

// eccentricFromTrue converts true anomaly to eccentric anomaly,
// inverting trueFromEccentric.
func eccentricFromTrue(e, nu float64) float64 {
	if e < 1 {
		return 2 * math.Atan2(math.Sqrt(1-e)*math.Sin(nu/2), math.Sqrt(1+e)*math.Cos(nu/2))
	}
	tanHalf := math.Tan(nu / 2)
	return 2 * math.Atanh(math.Sqrt((e-1)/(e+1))*tanHalf)
}

// trueFromEccentric converts eccentric anomaly to true anomaly.
func trueFromEccentric(e, E float64) float64 {
	if e < 1 {
		return 2 * math.Atan2(math.Sqrt(1+e)*math.Sin(E/2), math.Sqrt(1-e)*math.Cos(E/2))
	}
	return 2 * math.Atan(math.Sqrt((e+1)/(e-1))*math.Tanh(E/2))
}

// meanFromEccentric converts eccentric anomaly to mean anomaly.
func meanFromEccentric(e, E float64) float64 {
	if e < 1 {
		return E - e*math.Sin(E)
	}
	return e*math.Sinh(E) - E
}
