package congestion

import (
	"runtime"
	"sort"

	"github.com/lintang-b-s/livetraffic/pkg/concurrent"
	"github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/util"
)

// Network is the congestion state of the whole city: one Intersection per junction, one lane
// per incoming road. The set of intersections and lanes is fixed at construction.
type Network struct {
	intersections map[string]*Intersection
	names         []string
	numWorkers    int
}

func NewNetwork(base *datastructure.BaseTopology) *Network {
	nw := &Network{
		intersections: make(map[string]*Intersection, base.NumberOfVertices()),
		names:         base.Nodes(),
		numWorkers:    runtime.GOMAXPROCS(0),
	}
	for _, name := range nw.names {
		nw.intersections[name] = NewIntersection(name)
	}
	base.ForEdges(func(_ datastructure.Index, e datastructure.Edge, _ float64) {
		nw.intersections[e.To].AddIncomingLane(LaneIDOf(e))
	})
	return nw
}

func (nw *Network) GetIntersection(name string) (*Intersection, bool) {
	in, ok := nw.intersections[name]
	return in, ok
}

// Names returns the junction names in ascending order.
func (nw *Network) Names() []string {
	names := make([]string, len(nw.names))
	copy(names, nw.names)
	return names
}

// QueueLength is the congestion sample of the lane for e, 0 if e has no lane.
func (nw *Network) QueueLength(e datastructure.Edge) int {
	in, ok := nw.intersections[e.To]
	if !ok {
		return 0
	}
	return in.QueueLength(LaneIDOf(e))
}

// Enqueue adds count vehicles arriving over e at its head junction.
func (nw *Network) Enqueue(e datastructure.Edge, count int) error {
	in, ok := nw.intersections[e.To]
	if !ok {
		return util.WrapErrorf(nil, util.ErrUnknownLane, "no intersection named %s", e.To)
	}
	return in.Enqueue(LaneIDOf(e), count)
}

type SignalResult struct {
	Intersection string
	Lane         LaneID
	Drained      int
}

// RunAllSignals runs one signal cycle at every intersection. Intersections are independent,
// so cycles run in parallel; results come back sorted by intersection name.
func (nw *Network) RunAllSignals(batchSize int) []SignalResult {
	jobs := make([]*Intersection, 0, len(nw.names))
	for _, name := range nw.names {
		jobs = append(jobs, nw.intersections[name])
	}

	results := concurrent.RunAll[*Intersection, SignalResult](nw.numWorkers, jobs, func(in *Intersection) SignalResult {
		lane, drained := in.RunSignalCycle(batchSize)
		return SignalResult{Intersection: in.Name(), Lane: lane, Drained: drained}
	})

	sort.Slice(results, func(i, j int) bool {
		return results[i].Intersection < results[j].Intersection
	})
	return results
}

func (nw *Network) TotalQueued() int {
	total := 0
	for _, in := range nw.intersections {
		total += in.TotalQueued()
	}
	return total
}
