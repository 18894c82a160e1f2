package flightpath

// System owns the root of a body tree and provides primary-influence
// lookups against it. The tree is assumed well-formed: sibling SOIs
// never overlap, so FindPrimaryInfluence never has to choose between
// two matching children at the same level.
type System struct {
	id   string
	root *Body
}

// NewSystem constructs a System around root.
func NewSystem(id string, root *Body) (*System, error) {
	if root == nil {
		return nil, newError("NewSystem", InvalidArgument)
	}
	return &System{id: id, root: root}, nil
}

// ID returns the system's identifier.
func (s *System) ID() string { return s.id }

// Root returns the system's root body.
func (s *System) Root() *Body { return s.root }

// FindPrimaryInfluence walks the body tree from the root, descending
// into whichever child's sphere of influence contains r at time t,
// and repeating from there until no child matches. This is a genuine
// recursive descent: the original C++ (system.cc) only ever compared
// r against the root's direct children, because its `continue`
// statement restarted the inner for-loop rather than re-entering the
// matched child's own children. spec.md §4.4 describes the corrected,
// fully recursive behavior ("descend into that child; repeat"), which
// is what this implements.
func (s *System) FindPrimaryInfluence(r Vector3, t float64) (*Body, error) {
	primary := s.root
	for {
		next, err := matchingChild(primary, r, t)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return primary, nil
		}
		primary = next
	}
}

func matchingChild(primary *Body, r Vector3, t float64) (*Body, error) {
	for _, child := range primary.Children() {
		soi := child.SphereOfInfluence()
		childR, err := child.PredictSystemPosition(t)
		if err != nil {
			return nil, err
		}
		distSq := childR.Sub(r).SqNorm()
		if distSq < soi*soi {
			return child, nil
		}
	}
	return nil, nil
}
