package flightpath

import "math"

// CalculationStatus is the state produced by extending a Segment or
// SegmentGroup: the time reached so far and the kinematic state at
// that time. Incomplete marks a group that has not been finalized: it
// has no tf cap, or its end time has not passed that cap, so a later
// Calculate may extend it (a group truncated at its tf cap has
// Incomplete false). Eternal marks a
// ballistic segment that took the "orbit never leaves its primary's
// SOI" shortcut and is therefore growing end_t by a flat second per
// call rather than by a real step calculation (spec.md §9 Open
// Questions) — it is not surfaced through Predict/PredictOrbit, only
// through the CalculationStatus that Calculate and Status return.
type CalculationStatus struct {
	EndT       float64
	R, V       Vector3
	Incomplete bool
	Eternal    bool
}

// Segment is one ballistic or thrust arc within a SegmentGroup.
// Ballistic and Thrust are the only two variants (spec.md §9:
// "closed sum type with two variants per family").
type Segment interface {
	StartTime() float64
	Status() CalculationStatus
	Predict(t float64) (Vector3, Vector3, error)
	Calculate(t float64) (CalculationStatus, error)
	PredictOrbit(t float64) (*Orbit, *Body, error)
}

// BallisticSegment is a coasting arc: an Orbit about a fixed primary
// body, extended step by step until either its primary changes or
// (for an orbit that never leaves its primary's SOI) it is declared
// eternal.
type BallisticSegment struct {
	system  *System
	primary *Body
	t0      float64
	orbit   *Orbit
	status  CalculationStatus
}

// NewBallisticSegment resolves the segment's primary body via
// system.FindPrimaryInfluence and builds its Orbit from (r, v)
// relative to that primary at t0, per spec.md §4.6.
func NewBallisticSegment(system *System, r, v Vector3, t0 float64) (*BallisticSegment, error) {
	primary, err := system.FindPrimaryInfluence(r, t0)
	if err != nil {
		return nil, err
	}
	primaryPos, err := primary.PredictSystemPosition(t0)
	if err != nil {
		return nil, err
	}
	primaryVel, err := primary.PredictSystemVelocity(t0)
	if err != nil {
		return nil, err
	}
	rRel := r.Sub(primaryPos)
	vRel := v.Sub(primaryVel)
	orbit, err := NewOrbitFromRV(primary, rRel, vRel)
	if err != nil {
		return nil, err
	}
	return &BallisticSegment{
		system:  system,
		primary: primary,
		t0:      t0,
		orbit:   orbit,
		status:  CalculationStatus{EndT: t0, R: r, V: v},
	}, nil
}

func (s *BallisticSegment) StartTime() float64       { return s.t0 }
func (s *BallisticSegment) Status() CalculationStatus { return s.status }

// Predict returns the system-frame (r, v) at t, valid for any
// t in [t0, status.EndT].
func (s *BallisticSegment) Predict(t float64) (Vector3, Vector3, error) {
	predicted, err := s.orbit.Predict(t - s.t0)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}
	pos, err := predicted.Position()
	if err != nil {
		return Vector3{}, Vector3{}, err
	}
	vel, err := predicted.Velocity()
	if err != nil {
		return Vector3{}, Vector3{}, err
	}
	primaryPos, err := s.primary.PredictSystemPosition(t)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}
	primaryVel, err := s.primary.PredictSystemVelocity(t)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}
	return pos.Add(primaryPos), vel.Add(primaryVel), nil
}

// PredictOrbit returns the segment's osculating orbit about its
// primary, advanced to t.
func (s *BallisticSegment) PredictOrbit(t float64) (*Orbit, *Body, error) {
	predicted, err := s.orbit.Predict(t - s.t0)
	if err != nil {
		return nil, nil, err
	}
	return predicted, s.primary, nil
}

type peerSpeed struct {
	body     *Body
	maxSpeed float64
}

// Calculate extends the segment by stepping its orbit forward until
// either t is reached, the orbit crosses into a peer body's sphere of
// influence (ending the segment there), or the orbit is declared
// eternal. See spec.md §4.6 for the stepping algorithm.
func (s *BallisticSegment) Calculate(t float64) (CalculationStatus, error) {
	if t < s.status.EndT {
		return s.status, nil
	}

	if len(s.primary.Children()) == 0 && s.orbit.Eccentricity() < 1 &&
		s.orbit.Apoapsis() < s.primary.SphereOfInfluence() {
		predicted, err := s.orbit.Predict(t + 1 - s.t0)
		if err != nil {
			return CalculationStatus{}, err
		}
		pos, err := predicted.Position()
		if err != nil {
			return CalculationStatus{}, err
		}
		vel, err := predicted.Velocity()
		if err != nil {
			return CalculationStatus{}, err
		}
		s.status = CalculationStatus{EndT: t + 1, R: pos, V: vel, Eternal: true}
		return s.status, nil
	}

	cfg := currentConfig()
	var maxStep float64
	if period, err := s.orbit.Period(); err == nil {
		maxStep = period.Seconds() * cfg.MaxStepPeriodFraction
	} else {
		maxStep = (2 * math.Pi / s.orbit.meanMotionAbs()) * cfg.MaxStepPeriodFraction
	}

	peers := make([]peerSpeed, 0, len(s.primary.Children()))
	for _, child := range s.primary.Children() {
		if child.Parent() != s.primary {
			return CalculationStatus{}, newError("BallisticSegment.Calculate", InvariantViolation)
		}
		peers = append(peers, peerSpeed{body: child, maxSpeed: child.Orbit().MaxSpeed()})
	}

	for s.status.EndT <= t {
		stepT := s.status.EndT
		stepDuration := maxStep

		for _, peer := range peers {
			localPredicted, err := s.orbit.Predict(stepT - s.t0)
			if err != nil {
				return CalculationStatus{}, err
			}
			localPos, err := localPredicted.Position()
			if err != nil {
				return CalculationStatus{}, err
			}
			localPeerPos, err := peer.body.PredictLocalPosition(stepT)
			if err != nil {
				return CalculationStatus{}, err
			}
			distance := localPos.Sub(localPeerPos).Norm() - peer.body.SphereOfInfluence()
			if distance < 0 {
				return CalculationStatus{}, newError("BallisticSegment.Calculate", InvariantViolation)
			}
			timeSep := distance / peer.maxSpeed
			if timeSep < stepDuration {
				stepDuration = timeSep
				if stepDuration < cfg.MinBallisticStep {
					stepDuration = cfg.MinBallisticStep
					break
				}
			}
		}

		newT := stepT + stepDuration
		predicted, err := s.orbit.Predict(newT - s.t0)
		if err != nil {
			return CalculationStatus{}, err
		}
		localPos, err := predicted.Position()
		if err != nil {
			return CalculationStatus{}, err
		}
		localVel, err := predicted.Velocity()
		if err != nil {
			return CalculationStatus{}, err
		}
		primaryPos, err := s.primary.PredictSystemPosition(newT)
		if err != nil {
			return CalculationStatus{}, err
		}
		primaryVel, err := s.primary.PredictSystemVelocity(newT)
		if err != nil {
			return CalculationStatus{}, err
		}
		sysPos := localPos.Add(primaryPos)
		sysVel := localVel.Add(primaryVel)
		s.status = CalculationStatus{EndT: newT, R: sysPos, V: sysVel}

		newPrimary, err := s.system.FindPrimaryInfluence(sysPos, newT)
		if err != nil {
			return CalculationStatus{}, err
		}
		if newPrimary != s.primary {
			break
		}
	}
	return s.status, nil
}

// ThrustSegment approximates one slice of a burn with a constant mean
// acceleration (thrust plus gravity), per spec.md §4.6. Unlike
// BallisticSegment, its duration is decided once in closed form
// (mass-limited, period-limited, or maneuver-end-limited, whichever
// is shortest) rather than by iterative stepping.
type ThrustSegment struct {
	system   *System
	primary  *Body
	maneuver *Maneuver
	t0       float64
	r0, v0   Vector3
	m0       float64

	status    CalculationStatus
	computed  bool
	duration  float64
	meanAccel Vector3
}

// NewThrustSegment resolves the segment's primary body and starting
// mass from maneuver at t0.
func NewThrustSegment(system *System, maneuver *Maneuver, r, v Vector3, t0 float64) (*ThrustSegment, error) {
	primary, err := system.FindPrimaryInfluence(r, t0)
	if err != nil {
		return nil, err
	}
	m0, err := maneuver.FindMassAtTime(t0)
	if err != nil {
		return nil, err
	}
	return &ThrustSegment{
		system:   system,
		primary:  primary,
		maneuver: maneuver,
		t0:       t0,
		r0:       r,
		v0:       v,
		m0:       m0,
		status:   CalculationStatus{EndT: t0, R: r, V: v},
	}, nil
}

func (s *ThrustSegment) StartTime() float64       { return s.t0 }
func (s *ThrustSegment) Status() CalculationStatus { return s.status }

// Predict returns the constant-mean-acceleration state at t, valid
// for any t in [t0, status.EndT].
func (s *ThrustSegment) Predict(t float64) (Vector3, Vector3, error) {
	if !s.computed {
		if _, err := s.Calculate(s.t0); err != nil {
			return Vector3{}, Vector3{}, err
		}
	}
	dt := t - s.t0
	r := s.r0.Add(s.v0.Scale(dt)).Add(s.meanAccel.Scale(dt * dt / 2))
	v := s.v0.Add(s.meanAccel.Scale(dt))
	return r, v, nil
}

// PredictOrbit builds the osculating orbit about the segment's
// primary from the predicted state at t.
func (s *ThrustSegment) PredictOrbit(t float64) (*Orbit, *Body, error) {
	r, v, err := s.Predict(t)
	if err != nil {
		return nil, nil, err
	}
	primaryPos, err := s.primary.PredictSystemPosition(t)
	if err != nil {
		return nil, nil, err
	}
	primaryVel, err := s.primary.PredictSystemVelocity(t)
	if err != nil {
		return nil, nil, err
	}
	rRel := r.Sub(primaryPos)
	vRel := v.Sub(primaryVel)
	orbit, err := NewOrbitFromRV(s.primary, rRel, vRel)
	if err != nil {
		return nil, nil, err
	}
	return orbit, s.primary, nil
}

// Calculate computes the segment's entire fixed-length slice on its
// first call; subsequent calls are no-ops returning the cached
// status, since the slice's duration does not depend on t.
func (s *ThrustSegment) Calculate(t float64) (CalculationStatus, error) {
	if s.computed {
		return s.status, nil
	}
	cfg := currentConfig()

	primaryPos0, err := s.primary.PredictSystemPosition(s.t0)
	if err != nil {
		return CalculationStatus{}, err
	}
	primaryVel0, err := s.primary.PredictSystemVelocity(s.t0)
	if err != nil {
		return CalculationStatus{}, err
	}
	rRel := s.r0.Sub(primaryPos0)
	vRel := s.v0.Sub(primaryVel0)
	orbit, err := NewOrbitFromRV(s.primary, rRel, vRel)
	if err != nil {
		return CalculationStatus{}, err
	}

	var periodLimited float64
	if period, err := orbit.Period(); err == nil {
		periodLimited = period.Seconds() * cfg.MaxStepPeriodFraction
	} else {
		periodLimited = (2 * math.Pi / orbit.meanMotionAbs()) * cfg.MaxStepPeriodFraction
	}

	flowRate := s.maneuver.Performance.FlowRate()
	massLimited := (s.m0 * cfg.MaxMassRatioPerStep) / flowRate
	maneuverLimited := s.maneuver.T1() - s.t0

	delta := math.Min(massLimited, math.Min(periodLimited, maneuverLimited))

	direction, err := s.maneuver.FindThrustVector(s.r0, s.v0, s.t0)
	if err != nil {
		return CalculationStatus{}, err
	}
	mTf := s.m0 - delta*flowRate
	meanThrustMag := (2*s.maneuver.Performance.Thrust/s.m0 + s.maneuver.Performance.Thrust/mTf) / 3
	aThrust := direction.Scale(meanThrustMag)

	rMid := s.r0.Add(s.v0.Scale(delta / 2)).Add(aThrust.Scale(delta * delta / 8))
	primaryPosMid, err := s.primary.PredictSystemPosition(s.t0 + delta/2)
	if err != nil {
		return CalculationStatus{}, err
	}
	rMidRel := rMid.Sub(primaryPosMid)
	aGravity := rMidRel.Normalized().Scale(-s.primary.GM() / rMidRel.SqNorm())

	s.meanAccel = aThrust.Add(aGravity)
	s.duration = delta

	r1 := s.r0.Add(s.v0.Scale(delta)).Add(s.meanAccel.Scale(delta * delta / 2))
	v1 := s.v0.Add(s.meanAccel.Scale(delta))

	endT := math.Min(s.t0+delta, s.maneuver.T1())
	s.status = CalculationStatus{EndT: endT, R: r1, V: v1}
	s.computed = true
	return s.status, nil
}
