package flightpath

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func earthMoonSystem(t *testing.T) (*Body, *Body) {
	t.Helper()
	earth := NewBody("earth", 3.986004418e14, 6.371e6)
	moonOrbit, err := NewOrbitFromRV(earth, Vector3{384400000, 0, 0}, Vector3{0, 1022, 0})
	if err != nil {
		t.Fatalf("NewOrbitFromRV: %v", err)
	}
	moon, err := NewOrbitingBody("moon", 4.9048695e12, 1.7374e6, earth, moonOrbit)
	if err != nil {
		t.Fatalf("NewOrbitingBody: %v", err)
	}
	if err := earth.AddChild(moon); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	return earth, moon
}

func TestNewOrbitingBodyRequiresParentAndOrbit(t *testing.T) {
	earth := NewBody("earth", 3.986004418e14, 6.371e6)
	orbit, err := NewOrbitFromRV(earth, Vector3{384400000, 0, 0}, Vector3{0, 1022, 0})
	if err != nil {
		t.Fatalf("NewOrbitFromRV: %v", err)
	}
	if _, err := NewOrbitingBody("moon", 1, 1, nil, orbit); !IsKind(err, InvalidArgument) {
		t.Fatalf("nil parent: got %v, want InvalidArgument", err)
	}
	if _, err := NewOrbitingBody("moon", 1, 1, earth, nil); !IsKind(err, InvalidArgument) {
		t.Fatalf("nil orbit: got %v, want InvalidArgument", err)
	}
}

func TestBodySphereOfInfluence(t *testing.T) {
	earth, moon := earthMoonSystem(t)
	if earth.SphereOfInfluence() != -1 {
		t.Fatalf("root SOI = %f, want -1", earth.SphereOfInfluence())
	}
	soi := moon.SphereOfInfluence()
	if soi <= 0 {
		t.Fatalf("moon SOI = %f, want > 0", soi)
	}
}

func TestBodyIsParent(t *testing.T) {
	earth, moon := earthMoonSystem(t)
	if !earth.IsParent(moon) {
		t.Fatal("earth.IsParent(moon) = false, want true")
	}
	if moon.IsParent(earth) {
		t.Fatal("moon.IsParent(earth) = true, want false")
	}
}

// sunEarthMoonSystem builds a 3-level sol->earth->moon tree, for tests
// that need to distinguish "descends one level" from "descends all the
// way to the deepest body". The moon circles 100 m from earth so that
// it lies inside earth's SOI as SphereOfInfluence() computes it (about
// 182 m for these elements).
func sunEarthMoonSystem(t *testing.T) (*Body, *Body, *Body) {
	t.Helper()
	sun := NewBody("sol", G*1.98891691172467e30, 6.957e8)
	earthOrbit, err := NewOrbitFromRV(sun, Vector3{1.496e11, 0, 0}, Vector3{0, 29780, 0})
	if err != nil {
		t.Fatalf("NewOrbitFromRV: %v", err)
	}
	earth, err := NewOrbitingBody("earth", 3.986004418e14, 6.371e6, sun, earthOrbit)
	if err != nil {
		t.Fatalf("NewOrbitingBody: %v", err)
	}
	if err := sun.AddChild(earth); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	moonOrbit, err := NewOrbitFromRV(earth, Vector3{100, 0, 0}, Vector3{0, 1996500, 0})
	if err != nil {
		t.Fatalf("NewOrbitFromRV: %v", err)
	}
	moon, err := NewOrbitingBody("moon", 4.9048695e12, 1.7374e6, earth, moonOrbit)
	if err != nil {
		t.Fatalf("NewOrbitingBody: %v", err)
	}
	if err := earth.AddChild(moon); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	return sun, earth, moon
}

func TestBodyPredictSystemPositionRecursesToRoot(t *testing.T) {
	sun, earth, moon := sunEarthMoonSystem(t)

	sysPos, err := moon.PredictSystemPosition(0)
	if err != nil {
		t.Fatalf("moon.PredictSystemPosition: %v", err)
	}
	localPos, err := moon.PredictLocalPosition(0)
	if err != nil {
		t.Fatalf("moon.PredictLocalPosition: %v", err)
	}
	earthPos, err := earth.PredictSystemPosition(0)
	if err != nil {
		t.Fatalf("earth.PredictSystemPosition: %v", err)
	}
	if !scalar.EqualWithinAbs(sysPos.X, localPos.X+earthPos.X, 1e-3) {
		t.Fatalf("moon system position X = %f, want local(%f)+earth(%f)", sysPos.X, localPos.X, earthPos.X)
	}
	sunPos, err := sun.PredictSystemPosition(0)
	if err != nil {
		t.Fatalf("sun.PredictSystemPosition: %v", err)
	}
	if !scalar.EqualWithinAbs(sunPos.X, 0, 1e-9) {
		t.Fatal("root system position should be the zero vector")
	}
}
