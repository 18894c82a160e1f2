package flightpath

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the optional Prometheus instrumentation a FlightPath
// can be asked to report through (spec.md's C12). Nothing is
// registered until NewMetrics is called (with a nil Registerer it
// registers against prometheus.DefaultRegisterer), and every method is
// nil-receiver safe, so a library
// consumer who never calls WithMetrics pays nothing, following the
// Cizor example's explicit-Registerer constructor pattern but scaled
// down to a library with no HTTP surface of its own to expose
// /metrics on.
type Metrics struct {
	segmentGroupsCreated *prometheus.CounterVec
}

// NewMetrics registers flightpath's Prometheus collectors against reg.
// A nil reg registers against prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	groups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flightpath_segment_groups_created_total",
		Help: "Total number of SegmentGroups created, labeled by kind (ballistic|thrust).",
	}, []string{"kind"})
	if err := reg.Register(groups); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			groups = already.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &Metrics{segmentGroupsCreated: groups}, nil
}

func (m *Metrics) observeSegmentGroupCreated(kind string) {
	if m == nil {
		return
	}
	m.segmentGroupsCreated.WithLabelValues(kind).Inc()
}
