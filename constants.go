package flightpath

import "math"

// G is the universal gravitational constant, m^3 kg^-1 s^-2, named in
// spec.md §6. The package itself never multiplies it against a mass —
// every Body is constructed directly from a GM — but it is exposed for
// embedders who only have a body's mass on hand and need to derive GM
// themselves.
const G = 6.67300e-11

// Tau is 2*Pi, named alongside G in spec.md §6's numerical constants.
const Tau = 2 * math.Pi
