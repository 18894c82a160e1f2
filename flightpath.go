package flightpath

import (
	"context"
	"sort"

	"github.com/go-kit/kit/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FlightPath is the public facade: given a System, an originating
// state (r0, v0, t0), and zero or more scheduled Maneuvers, it
// produces position/velocity at any requested time by lazily building
// and caching a run of SegmentGroups. Grounded on
// original_source/actor/src/path.cc's FlightPath class.
type FlightPath struct {
	system *System
	r0, v0 Vector3
	t0     float64

	maneuverT0s []float64
	maneuvers   map[float64]*Maneuver

	groupT0s []float64
	groups   map[float64]SegmentGroup
	status   CalculationStatus

	logger  log.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// NewFlightPath constructs a FlightPath starting at (r0, v0, t0) in
// system's root frame. Rejects t0 < 0 or a zero r0, per spec.md §6.
func NewFlightPath(system *System, r0, v0 Vector3, t0 float64) (*FlightPath, error) {
	if system == nil {
		return nil, newError("NewFlightPath", InvalidArgument)
	}
	if t0 < 0 {
		return nil, newError("NewFlightPath", InvalidArgument)
	}
	if r0.IsZero() {
		return nil, newError("NewFlightPath", InvalidArgument)
	}
	return &FlightPath{
		system:    system,
		r0:        r0,
		v0:        v0,
		t0:        t0,
		maneuvers: make(map[float64]*Maneuver),
		groups:    make(map[float64]SegmentGroup),
		status:    CalculationStatus{EndT: t0, R: r0, V: v0},
		logger:    newNopLogger(),
		tracer:    noopTracer(),
	}, nil
}

// WithLogger attaches logger, returning fp for chaining. Mirrors the
// teacher's direct field-assignment style (Spacecraft.logger in
// mission.go) rather than a functional-options pattern the teacher
// never uses.
func (fp *FlightPath) WithLogger(logger log.Logger) *FlightPath {
	fp.logger = logger
	return fp
}

// WithMetrics attaches a Metrics collector, returning fp for chaining.
func (fp *FlightPath) WithMetrics(m *Metrics) *FlightPath {
	fp.metrics = m
	return fp
}

// WithTracer attaches an OpenTelemetry tracer, returning fp for
// chaining.
func (fp *FlightPath) WithTracer(tracer trace.Tracer) *FlightPath {
	fp.tracer = tracer
	return fp
}

// Add schedules maneuver, requiring maneuver.T0 >= the last scheduled
// maneuver's T1 (no overlap), and resets the cache so future
// Calculate/Predict calls reflect the new schedule.
func (fp *FlightPath) Add(maneuver *Maneuver) error {
	if maneuver == nil {
		return newError("FlightPath.Add", InvalidArgument)
	}
	if len(fp.maneuverT0s) > 0 {
		last := fp.maneuvers[fp.maneuverT0s[len(fp.maneuverT0s)-1]]
		if maneuver.T0 < last.T1() {
			return newError("FlightPath.Add", Conflict)
		}
	}
	fp.maneuvers[maneuver.T0] = maneuver
	fp.maneuverT0s = append(fp.maneuverT0s, maneuver.T0)
	sort.Float64s(fp.maneuverT0s)
	fp.resetCache()
	return nil
}

// Remove unschedules maneuver, resetting the cache.
func (fp *FlightPath) Remove(maneuver *Maneuver) {
	if maneuver == nil {
		return
	}
	delete(fp.maneuvers, maneuver.T0)
	for i, t0 := range fp.maneuverT0s {
		if t0 == maneuver.T0 {
			fp.maneuverT0s = append(fp.maneuverT0s[:i], fp.maneuverT0s[i+1:]...)
			break
		}
	}
	fp.resetCache()
}

// Clear removes every scheduled maneuver and resets the cache.
func (fp *FlightPath) Clear() {
	fp.maneuvers = make(map[float64]*Maneuver)
	fp.maneuverT0s = nil
	fp.resetCache()
}

// ClearAfter removes every maneuver with T0 >= t and resets the cache.
func (fp *FlightPath) ClearAfter(t float64) {
	kept := fp.maneuverT0s[:0:0]
	for _, t0 := range fp.maneuverT0s {
		if t0 >= t {
			delete(fp.maneuvers, t0)
			continue
		}
		kept = append(kept, t0)
	}
	fp.maneuverT0s = kept
	fp.resetCache()
}

func (fp *FlightPath) resetCache() {
	fp.groups = make(map[float64]SegmentGroup)
	fp.groupT0s = nil
	fp.status = CalculationStatus{EndT: fp.t0, R: fp.r0, V: fp.v0}
}

// FindManeuver returns the maneuver whose [t0, t1) contains t, or nil.
func (fp *FlightPath) FindManeuver(t float64) *Maneuver {
	var preceding *Maneuver
	for _, t0 := range fp.maneuverT0s {
		if t0 > t {
			break
		}
		preceding = fp.maneuvers[t0]
	}
	if preceding == nil || preceding.T1() <= t {
		return nil
	}
	return preceding
}

// FindNextManeuver returns the first scheduled maneuver with T0 > t,
// or nil.
func (fp *FlightPath) FindNextManeuver(t float64) *Maneuver {
	for _, t0 := range fp.maneuverT0s {
		if t0 > t {
			return fp.maneuvers[t0]
		}
	}
	return nil
}

func (fp *FlightPath) lastGroup() SegmentGroup {
	if len(fp.groupT0s) == 0 {
		return nil
	}
	return fp.groups[fp.groupT0s[len(fp.groupT0s)-1]]
}

// Calculate extends the cache until status.EndT covers t, per
// spec.md §4.8: first continuing any incomplete group, then spawning
// new groups (thrust when a maneuver contains the new group's start
// time, ballistic otherwise, capped at the next maneuver's t0) until
// the horizon is reached.
func (fp *FlightPath) Calculate(ctx context.Context, t float64) (CalculationStatus, error) {
	_, span := fp.startSpan(ctx, "flightpath.Calculate")
	span.SetAttributes(attribute.Float64("flightpath.t", t))
	defer span.End()

	if t < fp.status.EndT {
		return fp.status, nil
	}

	if fp.status.Incomplete {
		if last := fp.lastGroup(); last != nil {
			st, err := last.Calculate(t)
			if err != nil {
				fp.logCalculationError("FlightPath.Calculate", err)
				return CalculationStatus{}, err
			}
			fp.status = st
		}
	}

	for fp.status.EndT <= t {
		groupT0 := fp.status.EndT
		r, v := fp.status.R, fp.status.V

		maneuver := fp.FindManeuver(groupT0)
		var group SegmentGroup
		var kind string
		var err error
		if maneuver != nil {
			group, err = NewThrustSegmentGroup(fp.system, maneuver, r, v, groupT0)
			kind = "thrust"
		} else {
			var tf *float64
			if next := fp.FindNextManeuver(groupT0); next != nil {
				nextT0 := next.T0
				tf = &nextT0
			}
			group, err = NewBallisticSegmentGroup(fp.system, r, v, groupT0, tf)
			kind = "ballistic"
		}
		if err != nil {
			fp.logCalculationError("FlightPath.Calculate", err)
			return CalculationStatus{}, err
		}

		logSegmentGroup(fp.logger, kind, groupT0)
		fp.metrics.observeSegmentGroupCreated(kind)

		st, err := group.Calculate(t)
		if err != nil {
			fp.logCalculationError("FlightPath.Calculate", err)
			return CalculationStatus{}, err
		}
		if st.EndT <= groupT0 {
			err := newError("FlightPath.Calculate", NonProgress)
			fp.logFault("FlightPath.Calculate", err)
			return CalculationStatus{}, err
		}

		fp.groups[groupT0] = group
		fp.groupT0s = append(fp.groupT0s, groupT0)
		fp.status = st
	}

	return fp.status, nil
}

// logCalculationError routes a Calculate failure to logDivergence when
// it is a NumericalDivergence, keeping that class distinguishable from
// other calculation faults in logs rather than flattening everything
// to logFault's uniform "critical" level.
func (fp *FlightPath) logCalculationError(op string, err error) {
	if IsKind(err, NumericalDivergence) {
		logDivergence(fp.logger, op, err)
		return
	}
	fp.logFault(op, err)
}

func (fp *FlightPath) logFault(op string, err error) {
	fp.logger.Log("level", "critical", "subsys", "flightpath", "message", "calculation fault", "op", op, "err", err)
}

// Predict returns (r, v) in the System's root frame at t.
func (fp *FlightPath) Predict(ctx context.Context, t float64) (Vector3, Vector3, error) {
	ctx, span := fp.startSpan(ctx, "flightpath.Predict")
	span.SetAttributes(attribute.Float64("flightpath.t", t))
	defer span.End()

	if _, err := fp.Calculate(ctx, t); err != nil {
		return Vector3{}, Vector3{}, err
	}
	group, err := fp.groupAt(t)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}
	seg, err := group.GetSegment(t)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}
	return seg.Predict(t)
}

// PredictOrbit returns the osculating orbit containing t, about its
// primary body, or (if body is non-nil) about the supplied body
// instead — meaningful only when that body actually dominates at t.
func (fp *FlightPath) PredictOrbit(ctx context.Context, t float64, body *Body) (*Orbit, *Body, error) {
	if _, err := fp.Calculate(ctx, t); err != nil {
		return nil, nil, err
	}
	group, err := fp.groupAt(t)
	if err != nil {
		return nil, nil, err
	}
	seg, err := group.GetSegment(t)
	if err != nil {
		return nil, nil, err
	}
	if body == nil {
		return seg.PredictOrbit(t)
	}

	r, v, err := seg.Predict(t)
	if err != nil {
		return nil, nil, err
	}
	bodyPos, err := body.PredictSystemPosition(t)
	if err != nil {
		return nil, nil, err
	}
	bodyVel, err := body.PredictSystemVelocity(t)
	if err != nil {
		return nil, nil, err
	}
	rRel := r.Sub(bodyPos)
	vRel := v.Sub(bodyVel)
	orbit, err := NewOrbitFromRV(body, rRel, vRel)
	if err != nil {
		return nil, nil, err
	}
	return orbit, body, nil
}

func (fp *FlightPath) groupAt(t float64) (SegmentGroup, error) {
	if t < fp.t0 {
		return nil, newError("FlightPath.groupAt", OutOfRange)
	}
	idx := -1
	for i, t0 := range fp.groupT0s {
		if t0 > t {
			break
		}
		idx = i
	}
	if idx == -1 {
		return nil, newError("FlightPath.groupAt", OutOfRange)
	}
	return fp.groups[fp.groupT0s[idx]], nil
}
