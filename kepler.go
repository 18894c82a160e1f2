package flightpath

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// solveEccentricAnomaly solves Kepler's equation for the eccentric
// anomaly E given mean anomaly m and eccentricity e. e == 0 returns m
// directly; 0 < e < 1 solves M = E - e sin E; e > 1 solves the
// hyperbolic form M = e sinh E - E; e == 1 (parabolic) fails
// NotSupported. Anything that fails to converge
// within the configured iteration cap returns a *Error of kind
// NumericalDivergence, per spec.md §4.1's fail-fast contract: this
// solver never silently loops.
func solveEccentricAnomaly(e, m float64) (float64, error) {
	switch {
	case e < 0:
		return 0, newError("solveEccentricAnomaly", InvalidArgument)
	case e == 0:
		return m, nil
	case e < 1:
		return solveEllipticAnomaly(e, m)
	case e == 1:
		return 0, newError("solveEccentricAnomaly", NotSupported)
	default:
		return solveHyperbolicAnomaly(e, m)
	}
}

func solveEllipticAnomaly(e, m float64) (float64, error) {
	cfg := currentConfig()

	// Reduce m into [-π, π], remembering the offset so it can be
	// restored on the way out.
	offset := math.Floor((m+math.Pi)/(2*math.Pi)) * 2 * math.Pi
	mr := m - offset

	var ea float64
	if e < cfg.KeplerHighEccentricity {
		ea = math.Atan2(math.Sin(mr), math.Cos(mr)-e)
	} else {
		ea = highEccentricityStarter(e, mr)
	}

	for iter := 0; iter < cfg.KeplerIterationCap; iter++ {
		correction := (ea - e*math.Sin(ea) - mr) / (1 - e*math.Cos(ea))
		ea -= correction
		if scalar.EqualWithinAbs(correction, 0, cfg.KeplerTolerance) {
			return ea + offset, nil
		}
	}
	return 0, newError("solveEllipticAnomaly", NumericalDivergence)
}

// highEccentricityStarter is the starter used when e is close enough
// to 1 that the Meeus low-eccentricity starter converges too slowly.
// It returns the cube-root approximation cbrt(6·mr/e) for |mr| < 1 and
// mr itself otherwise; it is not a power series in |1-e|, and the
// clamped k below does not enter the result.
func highEccentricityStarter(e, mr float64) float64 {
	k := 1 - e
	if k < 1e-14 {
		k = 1e-14
	}
	// Cubic approximation near periapsis, falls back to mr far from it.
	ea := mr
	if math.Abs(mr) < 1 {
		root := math.Cbrt(6 * mr / e)
		ea = root
	}
	return ea
}

func solveHyperbolicAnomaly(e, m float64) (float64, error) {
	cfg := currentConfig()

	ea := hyperbolicStarter(e, m)

	for iter := 0; iter < cfg.KeplerIterationCap; iter++ {
		correction := (e*math.Sinh(ea) - ea - m) / (e*math.Cosh(ea) - 1)
		ea -= correction
		if scalar.EqualWithinAbs(correction, 0, cfg.KeplerTolerance) {
			return ea, nil
		}
	}
	return 0, newError("solveHyperbolicAnomaly", NumericalDivergence)
}

// hyperbolicStarter picks an initial guess for the hyperbolic
// eccentric anomaly, switching strategy by how far e sits from
// parabolic (e == 1) and how large m/e is, mirroring the starter
// families named in spec.md §4.1.
func hyperbolicStarter(e, m float64) float64 {
	absM := math.Abs(m)
	sign := 1.0
	if m < 0 {
		sign = -1.0
	}

	nearParabolic := e < 1.01
	switch {
	case !nearParabolic && absM/e > 6:
		return sign * (math.Log(2*absM/e) + 0.85)
	case !nearParabolic:
		root := math.Cbrt(6 * absM / e)
		return sign * root
	default:
		// Near-parabolic series correction, e within ~1% of 1.
		root := math.Cbrt(6 * absM / e)
		correction := root / (1 + root*root/10)
		return sign * correction
	}
}
