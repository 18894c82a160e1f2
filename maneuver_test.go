package flightpath

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestManeuverDerivedQuantities(t *testing.T) {
	body := scenarioOneBody()
	m, err := NewManeuver(Prograde, 1216.4, PerformanceData{Ve: 3000, Thrust: 20000}, 150, 30, body)
	if err != nil {
		t.Fatalf("NewManeuver: %v", err)
	}

	withinRel(t, "mass_fraction", m.MassFraction(), 0.3333, 1e-3)
	withinRel(t, "expended_mass", m.ExpendedMass(), 50, 1e-2)
	withinRel(t, "duration", m.Duration(), 7.5, 1e-2)
	withinRel(t, "t1", m.T1(), 37.5, 1e-2)
}

func TestManeuverFindMassAtTime(t *testing.T) {
	body := scenarioOneBody()
	m, err := NewManeuver(Prograde, 1216.4, PerformanceData{Ve: 3000, Thrust: 20000}, 150, 30, body)
	if err != nil {
		t.Fatalf("NewManeuver: %v", err)
	}

	mass, err := m.FindMassAtTime(30)
	if err != nil {
		t.Fatalf("FindMassAtTime(t0): %v", err)
	}
	if !scalar.EqualWithinAbs(mass, 150, 1e-9) {
		t.Fatalf("mass at t0 = %f, want 150", mass)
	}

	if _, err := m.FindMassAtTime(m.T1() + 1); !IsKind(err, OutOfRange) {
		t.Fatalf("FindMassAtTime past t1: got %v, want OutOfRange", err)
	}
}

func TestManeuverRejectsBadArguments(t *testing.T) {
	body := scenarioOneBody()
	if _, err := NewManeuver(Fixed, 100, PerformanceData{Ve: 3000, Thrust: 20000}, 150, 0, body); !IsKind(err, InvalidArgument) {
		t.Fatalf("NewManeuver with Fixed type: got %v, want InvalidArgument", err)
	}
	if _, err := NewManeuver(Prograde, 100, PerformanceData{Ve: 3000, Thrust: 20000}, 150, 0, nil); !IsKind(err, InvalidArgument) {
		t.Fatalf("NewManeuver with nil refBody: got %v, want InvalidArgument", err)
	}
	if _, err := NewFixedManeuver(Vector3{}, 100, PerformanceData{Ve: 3000, Thrust: 20000}, 150, 0); !IsKind(err, InvalidArgument) {
		t.Fatalf("NewFixedManeuver with zero direction: got %v, want InvalidArgument", err)
	}
}

func TestManeuverFindThrustVectorPrograde(t *testing.T) {
	body := scenarioOneBody()
	m, err := NewManeuver(Prograde, 100, PerformanceData{Ve: 3000, Thrust: 20000}, 150, 0, body)
	if err != nil {
		t.Fatalf("NewManeuver: %v", err)
	}
	r := Vector3{617244712358, -431694791368, -12036457087}
	v := Vector3{7320, 11329, -211}
	dir, err := m.FindThrustVector(r, v, 0)
	if err != nil {
		t.Fatalf("FindThrustVector: %v", err)
	}
	want := v.Normalized()
	if !scalar.EqualWithinAbs(dir.X, want.X, 1e-9) || !scalar.EqualWithinAbs(dir.Y, want.Y, 1e-9) {
		t.Fatalf("prograde direction = %+v, want %+v", dir, want)
	}
}
