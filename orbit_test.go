package flightpath

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// scenarioOneBody returns the Sun-mass central body used by spec.md
// §8 scenarios 1-5.
func scenarioOneBody() *Body {
	return NewBody("sol", G*1.98891691172467e30, 6.957e8)
}

func withinRel(t *testing.T, name string, got, want, rel float64) {
	t.Helper()
	if want == 0 {
		if got != 0 {
			t.Fatalf("%s = %g, want 0", name, got)
		}
		return
	}
	if !scalar.EqualWithinRel(got, want, rel) {
		t.Fatalf("%s = %g, want %g (rel tol %g)", name, got, want, rel)
	}
}

func TestOrbitFromRVElliptic(t *testing.T) {
	body := scenarioOneBody()
	r := Vector3{617244712358, -431694791368, -12036457087}
	v := Vector3{7320, 11329, -211}

	o, err := NewOrbitFromRV(body, r, v)
	if err != nil {
		t.Fatalf("NewOrbitFromRV: %v", err)
	}

	withinRel(t, "eccentricity", o.Eccentricity(), 0.04905143, 1e-3)
	withinRel(t, "semi-major axis", o.SemiMajorAxis(), 7.789525e11, 1e-4)

	period, err := o.Period()
	if err != nil {
		t.Fatalf("Period: %v", err)
	}
	withinRel(t, "period", period.Seconds(), 3.74900e8, 1e-3)

	pos, err := o.Position()
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	withinRel(t, "position.X", pos.X, r.X, 1e-4)
	withinRel(t, "position.Y", pos.Y, r.Y, 1e-4)
	withinRel(t, "position.Z", pos.Z, r.Z, 1e-4)
}

func TestOrbitFromRVHyperbolic(t *testing.T) {
	body := scenarioOneBody()
	r := Vector3{617244712358, -431694791368, -12036457087}
	v := Vector3{7320, 18329, -211}

	o, err := NewOrbitFromRV(body, r, v)
	if err != nil {
		t.Fatalf("NewOrbitFromRV: %v", err)
	}

	withinRel(t, "eccentricity", o.Eccentricity(), 1.2012211, 1e-4)
	withinRel(t, "semi-major axis", o.SemiMajorAxis(), -3.565e12, 1e-3)

	if _, err := o.Period(); !IsKind(err, NoPeriod) {
		t.Fatalf("Period on hyperbolic orbit: got %v, want NoPeriod", err)
	}
}

func TestOrbitHalfPeriodPrediction(t *testing.T) {
	body := scenarioOneBody()
	r := Vector3{617244712358, -431694791368, -12036457087}
	v := Vector3{7320, 11329, -211}

	o, err := NewOrbitFromRV(body, r, v)
	if err != nil {
		t.Fatalf("NewOrbitFromRV: %v", err)
	}
	period, err := o.Period()
	if err != nil {
		t.Fatalf("Period: %v", err)
	}

	predicted, err := o.Predict(period.Seconds() / 2)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	pos, err := predicted.Position()
	if err != nil {
		t.Fatalf("Position: %v", err)
	}

	want := Vector3{660798922159.64, -462156171007.35, -12885777245.99}
	withinRel(t, "half-period position.X", pos.X, want.X, 1e-4)
	withinRel(t, "half-period position.Y", pos.Y, want.Y, 1e-4)
	withinRel(t, "half-period position.Z", pos.Z, want.Z, 1e-4)
}

func TestOrbitRoundTripsOverNPeriods(t *testing.T) {
	body := scenarioOneBody()
	r := Vector3{617244712358, -431694791368, -12036457087}
	v := Vector3{7320, 11329, -211}

	o, err := NewOrbitFromRV(body, r, v)
	if err != nil {
		t.Fatalf("NewOrbitFromRV: %v", err)
	}
	period, err := o.Period()
	if err != nil {
		t.Fatalf("Period: %v", err)
	}

	for _, n := range []float64{1, 2, 3} {
		predicted, err := o.Predict(period.Seconds() * n)
		if err != nil {
			t.Fatalf("Predict(%gT): %v", n, err)
		}
		pos, err := predicted.Position()
		if err != nil {
			t.Fatalf("Position: %v", err)
		}
		withinRel(t, "round-trip position.X", pos.X, r.X, 1e-4)
		withinRel(t, "round-trip position.Y", pos.Y, r.Y, 1e-4)
		withinRel(t, "round-trip position.Z", pos.Z, r.Z, 1e-4)
	}
}

func TestOrbitFromElementsHasNoInitialState(t *testing.T) {
	body := scenarioOneBody()
	o, err := NewOrbitFromElements(body, 7.789525e11, 0.04905143, 0.1, 0.2, 0.3, 0.4)
	if err != nil {
		t.Fatalf("NewOrbitFromElements: %v", err)
	}
	if _, err := o.Position(); !IsKind(err, NotSupported) {
		t.Fatalf("Position on element-only orbit: got %v, want NotSupported", err)
	}
}
