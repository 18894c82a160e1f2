package flightpath

import "testing"

func TestBallisticSegmentGroupGetSegmentOutOfRange(t *testing.T) {
	sys, _ := scenarioOneSystem(t)
	r := Vector3{617244712358, -431694791368, -12036457087}
	v := Vector3{7320, 11329, -211}

	group, err := NewBallisticSegmentGroup(sys, r, v, 0, nil)
	if err != nil {
		t.Fatalf("NewBallisticSegmentGroup: %v", err)
	}
	if _, err := group.GetSegment(0); !IsKind(err, OutOfRange) {
		t.Fatalf("GetSegment before any Calculate: got %v, want OutOfRange", err)
	}
	if _, err := group.Calculate(100); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if _, err := group.GetSegment(50); err != nil {
		t.Fatalf("GetSegment(50): %v", err)
	}
}

func TestBallisticSegmentGroupCalculateRejectsPastTimes(t *testing.T) {
	sys, _ := scenarioOneSystem(t)
	r := Vector3{617244712358, -431694791368, -12036457087}
	v := Vector3{7320, 11329, -211}

	group, err := NewBallisticSegmentGroup(sys, r, v, 100, nil)
	if err != nil {
		t.Fatalf("NewBallisticSegmentGroup: %v", err)
	}
	if _, err := group.Calculate(50); !IsKind(err, OutOfRange) {
		t.Fatalf("Calculate(t < t0): got %v, want OutOfRange", err)
	}
}

func TestThrustSegmentGroupRequiresMatchingT0(t *testing.T) {
	sys, body := scenarioOneSystem(t)
	r := Vector3{617244712358, -431694791368, -12036457087}
	v := Vector3{7320, 11329, -211}

	maneuver, err := NewManeuver(Prograde, 100, PerformanceData{Ve: 3000, Thrust: 20000}, 150, 10, body)
	if err != nil {
		t.Fatalf("NewManeuver: %v", err)
	}
	if _, err := NewThrustSegmentGroup(sys, maneuver, r, v, 0); !IsKind(err, InvalidArgument) {
		t.Fatalf("mismatched t0: got %v, want InvalidArgument", err)
	}
	if _, err := NewThrustSegmentGroup(sys, maneuver, r, v, 10); err != nil {
		t.Fatalf("matching t0 should succeed: %v", err)
	}
}
