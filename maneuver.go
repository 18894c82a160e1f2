package flightpath

import "math"

// ManeuverType selects how FindThrustVector resolves a thrust
// direction relative to a reference body's motion.
type ManeuverType uint8

const (
	Prograde ManeuverType = iota + 1
	Retrograde
	Radial
	AntiRadial
	Normal
	AntiNormal
	Fixed
)

// PerformanceData describes the engine driving a Maneuver: exhaust
// velocity and thrust magnitude, named after the teacher's
// EPThruster interface (thrusters.go) which carries the same two
// quantities under Isp/Thrust.
type PerformanceData struct {
	Ve     float64 // exhaust velocity, m/s
	Thrust float64 // newtons
}

// FlowRate returns the propellant mass flow rate, thrust/ve.
func (p PerformanceData) FlowRate() float64 {
	return p.Thrust / p.Ve
}

// Maneuver is a thrust prescription over a bounded time interval
// [t0, t1), defined either by a symbolic ManeuverType (resolved
// relative to a reference body at evaluation time) or by a Fixed unit
// vector that does not depend on position.
type Maneuver struct {
	Type        ManeuverType
	Dv          float64 // m/s, rocket-equation delta-v
	Performance PerformanceData
	M0          float64 // kg, mass at t0
	T0          float64

	fixedDir Vector3 // valid only when Type == Fixed
	refBody  *Body   // valid for all non-Fixed types
}

// NewManeuver constructs a Maneuver whose thrust direction is resolved
// relative to refBody at evaluation time.
func NewManeuver(t ManeuverType, dv float64, perf PerformanceData, m0, t0 float64, refBody *Body) (*Maneuver, error) {
	if t == Fixed {
		return nil, newError("NewManeuver", InvalidArgument)
	}
	if refBody == nil || m0 <= 0 || perf.Ve <= 0 {
		return nil, newError("NewManeuver", InvalidArgument)
	}
	return &Maneuver{Type: t, Dv: dv, Performance: perf, M0: m0, T0: t0, refBody: refBody}, nil
}

// NewFixedManeuver constructs a Maneuver whose thrust direction is the
// constant unit vector dir, independent of position.
func NewFixedManeuver(dir Vector3, dv float64, perf PerformanceData, m0, t0 float64) (*Maneuver, error) {
	if dir.IsZero() || m0 <= 0 || perf.Ve <= 0 {
		return nil, newError("NewFixedManeuver", InvalidArgument)
	}
	return &Maneuver{Type: Fixed, Dv: dv, Performance: perf, M0: m0, T0: t0, fixedDir: dir.Normalized()}, nil
}

// MassFraction returns the fraction of M0 consumed by the full burn,
// 1 - exp(-dv/ve).
func (m *Maneuver) MassFraction() float64 {
	return 1 - math.Exp(-m.Dv/m.Performance.Ve)
}

// ExpendedMass returns the total propellant mass consumed.
func (m *Maneuver) ExpendedMass() float64 {
	return m.M0 * m.MassFraction()
}

// Duration returns the burn duration, expended mass / flow rate.
func (m *Maneuver) Duration() float64 {
	return m.ExpendedMass() / m.Performance.FlowRate()
}

// T1 returns the maneuver's end time, t0 + duration.
func (m *Maneuver) T1() float64 {
	return m.T0 + m.Duration()
}

// FindMassAtTime returns the vehicle mass at time t, failing
// OutOfRange if t falls outside [t0, t1].
func (m *Maneuver) FindMassAtTime(t float64) (float64, error) {
	if t < m.T0 || t > m.T1() {
		return 0, newError("Maneuver.FindMassAtTime", OutOfRange)
	}
	return m.M0 - (t-m.T0)*m.Performance.FlowRate(), nil
}

// FindThrustVector resolves the maneuver's thrust direction at time t,
// given the actor's current position r and velocity v (system frame).
// For every type except Fixed, direction is computed relative to the
// reference body's own motion: r_rel = r - ref.PredictSystemPosition(t),
// v_rel = v - ref.PredictSystemVelocity(t). A diverging Kepler solve
// anywhere in the reference body's own prediction chain is surfaced
// here rather than hidden, per spec.md §7.
func (m *Maneuver) FindThrustVector(r, v Vector3, t float64) (Vector3, error) {
	if m.Type == Fixed {
		return m.fixedDir, nil
	}

	refPos, err := m.refBody.PredictSystemPosition(t)
	if err != nil {
		return Vector3{}, err
	}
	refVel, err := m.refBody.PredictSystemVelocity(t)
	if err != nil {
		return Vector3{}, err
	}
	rRel := r.Sub(refPos)
	vRel := v.Sub(refVel)
	rHat := rRel.Normalized()
	vHat := vRel.Normalized()

	switch m.Type {
	case Prograde:
		return vHat, nil
	case Retrograde:
		return vHat.Scale(-1), nil
	case Radial:
		return rHat, nil
	case AntiRadial:
		return rHat.Scale(-1), nil
	case Normal:
		return rHat.Cross(vHat), nil
	case AntiNormal:
		return vHat.Cross(rHat), nil
	default:
		return Vector3{}, nil
	}
}
