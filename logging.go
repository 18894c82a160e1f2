package flightpath

import (
	"github.com/go-kit/kit/log"
)

// newNopLogger is the default a FlightPath logs through until
// WithLogger overrides it, keeping the library silent unless an
// embedder asks otherwise.
func newNopLogger() log.Logger {
	return log.NewNopLogger()
}

// logSegmentGroup emits the same level/subsys/message structured
// triple the teacher's Mission.LogStatus uses, here marking when a
// FlightPath spawns a new SegmentGroup.
func logSegmentGroup(logger log.Logger, kind string, t0 float64) {
	logger.Log("level", "info", "subsys", "flightpath", "message", "segment group created", "kind", kind, "t0", t0)
}

// logDivergence reports a Kepler solve that failed to converge before
// logging.go's caller gives up and returns the error to its own
// caller, so the failure is visible even to an embedder that discards
// returned errors in a fire-and-forget Predict call.
func logDivergence(logger log.Logger, op string, err error) {
	logger.Log("level", "error", "subsys", "flightpath", "message", "numerical divergence", "op", op, "err", err)
}
