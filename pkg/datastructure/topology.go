package datastructure

import (
	"github.com/lintang-b-s/livetraffic/pkg/util"
)

// Topology is one live, congestion-adjusted snapshot over the base edge set.
// weights[i] is the live travel time of base edge i; a Topology is never modified once built,
// readers may keep using it after a newer one has been published.
type Topology struct {
	base    *BaseTopology
	weights []float64
	version uint64
}

// NewTopology wraps live weights aligned with the base edge ids. The slice is owned by the
// returned Topology.
func NewTopology(base *BaseTopology, weights []float64) (*Topology, error) {
	if len(weights) != base.NumberOfEdges() {
		return nil, util.WrapErrorf(nil, util.ErrInvariantViolation,
			"live topology has %d edges, base topology has %d", len(weights), base.NumberOfEdges())
	}
	return &Topology{base: base, weights: weights}, nil
}

// NewTopologyFromBase returns a live topology carrying the nominal travel times.
func NewTopologyFromBase(base *BaseTopology) *Topology {
	weights := make([]float64, base.NumberOfEdges())
	copy(weights, base.weights)
	return &Topology{base: base, weights: weights}
}

// WithVersion returns a copy of t stamped with version. The weights are shared, not copied.
func (t *Topology) WithVersion(version uint64) *Topology {
	return &Topology{base: t.base, weights: t.weights, version: version}
}

func (t *Topology) Version() uint64 {
	return t.version
}

func (t *Topology) Base() *BaseTopology {
	return t.base
}

func (t *Topology) HasNode(u string) bool {
	return t.base.HasNode(u)
}

func (t *Topology) NumberOfEdges() int {
	return len(t.weights)
}

func (t *Topology) GetWeight(e Edge) (float64, bool) {
	id, ok := t.base.GetEdgeId(e)
	if !ok {
		return 0, false
	}
	return t.weights[id], true
}

func (t *Topology) GetWeightById(id Index) float64 {
	return t.weights[id]
}

// ForOutEdgesOf visits the outgoing edges of u with their live weights.
func (t *Topology) ForOutEdgesOf(u string, handle func(head string, weight float64)) {
	for _, e := range t.base.outEdges[u] {
		handle(e.head, t.weights[e.edgeId])
	}
}

func (t *Topology) ForEdges(handle func(e Edge, liveWeight float64)) {
	for id, e := range t.base.edges {
		handle(e, t.weights[id])
	}
}

// Equal reports whether both snapshots carry bit-identical weights over the same base.
func (t *Topology) Equal(other *Topology) bool {
	if t.base != other.base || len(t.weights) != len(other.weights) {
		return false
	}
	for i := range t.weights {
		if t.weights[i] != other.weights[i] {
			return false
		}
	}
	return true
}
