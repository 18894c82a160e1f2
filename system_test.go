package flightpath

import "testing"

func TestFindPrimaryInfluenceDescendsRecursively(t *testing.T) {
	earth, moon := earthMoonSystem(t)
	sys, err := NewSystem("earth-moon", earth)
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}

	// Near the moon's own position, the moon (not earth) should be
	// returned as primary influence: FindPrimaryInfluence descends from
	// the root into the child whose SOI contains the point. This tree
	// has one level below the root; the multi-level descent is checked
	// by TestFindPrimaryInfluenceDescendsThroughGrandchild.
	nearMoon, err := moon.PredictSystemPosition(0)
	if err != nil {
		t.Fatalf("moon.PredictSystemPosition: %v", err)
	}
	primary, err := sys.FindPrimaryInfluence(nearMoon, 0)
	if err != nil {
		t.Fatalf("FindPrimaryInfluence: %v", err)
	}
	if primary != moon {
		t.Fatalf("primary = %s, want moon", primary.ID())
	}

	farFromEverything := Vector3{1e12, 1e12, 1e12}
	primary, err = sys.FindPrimaryInfluence(farFromEverything, 0)
	if err != nil {
		t.Fatalf("FindPrimaryInfluence: %v", err)
	}
	if primary != earth {
		t.Fatalf("primary = %s, want earth", primary.ID())
	}
}

// TestFindPrimaryInfluenceDescendsThroughGrandchild uses a 3-level
// sol->earth->moon tree: a single-level-only FindPrimaryInfluence (one
// that stops after matching earth, rather than continuing on to check
// earth's own children) would return earth for a point near moon,
// since earth's SOI about the sun is also satisfied there.
func TestFindPrimaryInfluenceDescendsThroughGrandchild(t *testing.T) {
	sun, earth, moon := sunEarthMoonSystem(t)
	sys, err := NewSystem("sol", sun)
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}

	nearMoon, err := moon.PredictSystemPosition(0)
	if err != nil {
		t.Fatalf("moon.PredictSystemPosition: %v", err)
	}
	primary, err := sys.FindPrimaryInfluence(nearMoon, 0)
	if err != nil {
		t.Fatalf("FindPrimaryInfluence: %v", err)
	}
	if primary != moon {
		t.Fatalf("primary = %s, want moon", primary.ID())
	}

	nearEarthOnly := Vector3{1.496e11 - 50, 0, 0}
	primary, err = sys.FindPrimaryInfluence(nearEarthOnly, 0)
	if err != nil {
		t.Fatalf("FindPrimaryInfluence: %v", err)
	}
	if primary != earth {
		t.Fatalf("primary = %s, want earth", primary.ID())
	}
}

func TestNewSystemRejectsNilRoot(t *testing.T) {
	if _, err := NewSystem("x", nil); !IsKind(err, InvalidArgument) {
		t.Fatalf("NewSystem(nil): got %v, want InvalidArgument", err)
	}
}
