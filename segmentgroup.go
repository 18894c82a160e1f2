package flightpath

// SegmentGroup is an ordered run of same-kind Segments (all ballistic,
// or all thrust under one maneuver) sharing a single timeline: each
// new segment picks up exactly where the previous one's calculation
// stopped. See spec.md §4.7.
type SegmentGroup interface {
	StartTime() float64
	Status() CalculationStatus
	Predict(t float64) (Vector3, Vector3, error)
	Calculate(t float64) (CalculationStatus, error)
	GetSegment(t float64) (Segment, error)
}

// segmentGroupCore holds the bookkeeping common to both SegmentGroup
// variants: ordered segment storage, the tf clamp, and the extension
// loop from spec.md §4.7. Variant-specific construction dispatch
// (ballistic vs thrust) is supplied by the embedding type via a
// createSegment closure.
type segmentGroupCore struct {
	system *System
	t0     float64
	tf     *float64

	status CalculationStatus

	order    []float64
	segments map[float64]Segment
}

func newSegmentGroupCore(system *System, r, v Vector3, t0 float64, tf *float64) (*segmentGroupCore, error) {
	if t0 < 0 {
		return nil, newError("SegmentGroup", InvalidArgument)
	}
	if r.IsZero() {
		return nil, newError("SegmentGroup", InvalidArgument)
	}
	if tf != nil && *tf <= t0 {
		return nil, newError("SegmentGroup", InvalidArgument)
	}
	return &segmentGroupCore{
		system:   system,
		t0:       t0,
		tf:       tf,
		status:   CalculationStatus{EndT: t0, R: r, V: v},
		segments: make(map[float64]Segment),
	}, nil
}

func (c *segmentGroupCore) StartTime() float64       { return c.t0 }
func (c *segmentGroupCore) Status() CalculationStatus { return c.status }

// GetSegment returns the segment whose start time is the greatest
// value <= t; out-of-range queries fail OutOfRange.
func (c *segmentGroupCore) GetSegment(t float64) (Segment, error) {
	idx := -1
	for i, st := range c.order {
		if st > t {
			break
		}
		idx = i
	}
	if idx == -1 {
		return nil, newError("SegmentGroup.GetSegment", OutOfRange)
	}
	return c.segments[c.order[idx]], nil
}

func (c *segmentGroupCore) predict(t float64) (Vector3, Vector3, error) {
	seg, err := c.GetSegment(t)
	if err != nil {
		return Vector3{}, Vector3{}, err
	}
	return seg.Predict(t)
}

// calculate implements spec.md §4.7's extension algorithm. createSegment
// builds the concrete Segment variant starting at (r, v, segmentT).
func (c *segmentGroupCore) calculate(t float64, createSegment func(r, v Vector3, segmentT float64) (Segment, error)) (CalculationStatus, error) {
	if t < c.t0 {
		return CalculationStatus{}, newError("SegmentGroup.Calculate", OutOfRange)
	}

	tClamped := t
	if c.tf != nil && t > *c.tf {
		tClamped = *c.tf
	}

	if c.status.Incomplete && len(c.order) > 0 {
		last := c.segments[c.order[len(c.order)-1]]
		st, err := last.Calculate(tClamped)
		if err != nil {
			return CalculationStatus{}, err
		}
		c.status = st
	}

	for c.status.EndT <= tClamped && (c.tf == nil || c.status.EndT < *c.tf) {
		segT := c.status.EndT
		r, v := c.status.R, c.status.V

		seg, err := createSegment(r, v, segT)
		if err != nil {
			return CalculationStatus{}, err
		}
		st, err := seg.Calculate(tClamped)
		if err != nil {
			return CalculationStatus{}, err
		}
		if st.EndT <= segT {
			return CalculationStatus{}, newError("SegmentGroup.Calculate", NonProgress)
		}
		c.status = st
		c.order = append(c.order, segT)
		c.segments[segT] = seg
	}

	if c.tf != nil && c.status.EndT > *c.tf {
		last := c.segments[c.order[len(c.order)-1]]
		r, v, err := last.Predict(*c.tf)
		if err != nil {
			return CalculationStatus{}, err
		}
		c.status = CalculationStatus{EndT: *c.tf, R: r, V: v}
	} else {
		c.status.Incomplete = true
	}
	return c.status, nil
}

// BallisticSegmentGroup is a SegmentGroup whose segments are all
// BallisticSegment.
type BallisticSegmentGroup struct {
	core *segmentGroupCore
}

// NewBallisticSegmentGroup builds a group starting at (r, v, t0),
// optionally capped at tf (nil meaning open-ended, typically bounded
// later by the next maneuver's start time at the FlightPath level).
func NewBallisticSegmentGroup(system *System, r, v Vector3, t0 float64, tf *float64) (*BallisticSegmentGroup, error) {
	core, err := newSegmentGroupCore(system, r, v, t0, tf)
	if err != nil {
		return nil, err
	}
	return &BallisticSegmentGroup{core: core}, nil
}

func (g *BallisticSegmentGroup) StartTime() float64             { return g.core.StartTime() }
func (g *BallisticSegmentGroup) Status() CalculationStatus      { return g.core.Status() }
func (g *BallisticSegmentGroup) GetSegment(t float64) (Segment, error) { return g.core.GetSegment(t) }
func (g *BallisticSegmentGroup) Predict(t float64) (Vector3, Vector3, error) {
	return g.core.predict(t)
}

func (g *BallisticSegmentGroup) Calculate(t float64) (CalculationStatus, error) {
	return g.core.calculate(t, func(r, v Vector3, segmentT float64) (Segment, error) {
		return NewBallisticSegment(g.core.system, r, v, segmentT)
	})
}

// ThrustSegmentGroup is a SegmentGroup whose segments are all
// ThrustSegment, all driven by the same Maneuver.
type ThrustSegmentGroup struct {
	core     *segmentGroupCore
	maneuver *Maneuver
}

// NewThrustSegmentGroup builds a group starting at (r, v, t0), capped
// at maneuver.T1() — a thrust group never outlives its maneuver.
func NewThrustSegmentGroup(system *System, maneuver *Maneuver, r, v Vector3, t0 float64) (*ThrustSegmentGroup, error) {
	if maneuver == nil {
		return nil, newError("NewThrustSegmentGroup", InvalidArgument)
	}
	if maneuver.T0 != t0 {
		return nil, newError("NewThrustSegmentGroup", InvalidArgument)
	}
	t1 := maneuver.T1()
	core, err := newSegmentGroupCore(system, r, v, t0, &t1)
	if err != nil {
		return nil, err
	}
	return &ThrustSegmentGroup{core: core, maneuver: maneuver}, nil
}

func (g *ThrustSegmentGroup) StartTime() float64             { return g.core.StartTime() }
func (g *ThrustSegmentGroup) Status() CalculationStatus      { return g.core.Status() }
func (g *ThrustSegmentGroup) GetSegment(t float64) (Segment, error) { return g.core.GetSegment(t) }
func (g *ThrustSegmentGroup) Predict(t float64) (Vector3, Vector3, error) {
	return g.core.predict(t)
}

func (g *ThrustSegmentGroup) Calculate(t float64) (CalculationStatus, error) {
	return g.core.calculate(t, func(r, v Vector3, segmentT float64) (Segment, error) {
		return NewThrustSegment(g.core.system, g.maneuver, r, v, segmentT)
	})
}
