package flightpath

import "fmt"

// Kind identifies the taxonomy of fallible outcomes named in spec.md
// §7. Every constructor and calculation of the prediction core that
// can fail returns an *Error with one of these kinds, so callers can
// match on it with errors.As. Two exceptions: NewMetrics returns
// Prometheus registration errors unchanged, and Body.Predict panics
// when called on a root body.
type Kind uint8

const (
	// InvalidArgument marks out-of-domain construction: a zero
	// position vector, a negative time, a nil child, a mismatched
	// maneuver/group time, or a NaN input to a Kepler-solving path.
	InvalidArgument Kind = iota + 1
	// OutOfRange marks a time falling outside a structure's valid
	// interval (Maneuver.FindMassAtTime, SegmentGroup.GetSegment,
	// SegmentGroup.Calculate with t < t0).
	OutOfRange
	// Conflict marks a maneuver overlapping an existing one.
	Conflict
	// NoPeriod marks a period query on a non-elliptic orbit.
	NoPeriod
	// NoMinSpeed marks a min-speed query on a non-elliptic orbit.
	NoMinSpeed
	// NotSupported marks a feature intentionally unimplemented:
	// element-only Orbit rotation construction, parabolic orbits.
	NotSupported
	// InvariantViolation marks a sanity check failing: negative
	// distance to a sibling SOI, a child/parent id mismatch.
	InvariantViolation
	// NonProgress marks a segment or group calculation that failed to
	// advance its end time.
	NonProgress
	// NumericalDivergence marks Kepler iteration exceeding its cap.
	NumericalDivergence
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case OutOfRange:
		return "OutOfRange"
	case Conflict:
		return "Conflict"
	case NoPeriod:
		return "NoPeriod"
	case NoMinSpeed:
		return "NoMinSpeed"
	case NotSupported:
		return "NotSupported"
	case InvariantViolation:
		return "InvariantViolation"
	case NonProgress:
		return "NonProgress"
	case NumericalDivergence:
		return "NumericalDivergence"
	default:
		return "Unknown"
	}
}

// Error is the sole error type returned by this package's fallible
// operations. Op names the failing method (e.g. "Orbit.Period"); Kind
// is the matchable taxonomy entry; Cause is the optional wrapped
// underlying error.
type Error struct {
	Op    string
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap supports errors.Is/errors.As against Cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so
// errors.Is(err, &Error{Kind: NoPeriod}) matches any NoPeriod error
// whatever its Op or Cause. IsKind does the same check without
// unwrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(op string, kind Kind) *Error {
	return &Error{Op: op, Kind: kind}
}

func newErrorf(op string, kind Kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, Cause: cause}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == kind
}
