package routing

import (
	"github.com/lintang-b-s/livetraffic/pkg"
	da "github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/util"
)

// routeLabel is a frontier entry: the junction reached and the junctions visited on the way.
type routeLabel struct {
	node string
	path []string
}

// labelLess breaks ties between frontier entries of equal travel time: junction name first,
// then the path so far, both compared lexicographically.
func labelLess(a, b routeLabel) bool {
	if a.node != b.node {
		return a.node < b.node
	}
	return util.CompareStringSlices(a.path, b.path) < 0
}

// Dijkstra is a single point-to-point query over one live topology snapshot.
// It uses lazy deletion: duplicate frontier entries are dropped when popped after their
// junction is settled, so no decrease-key is needed.
type Dijkstra struct {
	topology *da.Topology

	pq      *da.MinHeap[routeLabel]
	settled map[string]struct{}

	numSettledNodes int
}

func NewDijkstra(topology *da.Topology) *Dijkstra {
	return &Dijkstra{
		topology: topology,
		pq:       da.NewFourAryHeap[routeLabel](labelLess),
		settled:  make(map[string]struct{}),
	}
}

// ShortestPath returns the minimum travel time from s to t and the junctions along it.
// found is false when s or t is unknown or t is unreachable.
func (d *Dijkstra) ShortestPath(s, t string) (float64, []string, bool) {
	if !d.topology.HasNode(s) || !d.topology.HasNode(t) {
		return pkg.INF_WEIGHT, nil, false
	}
	if s == t {
		return 0, []string{s}, true
	}

	d.pq.Preallocate(d.topology.NumberOfEdges() + 1)
	d.pq.Insert(da.NewPriorityQueueNode(0, routeLabel{node: s, path: []string{s}}))

	for !d.pq.IsEmpty() {
		pqNode, _ := d.pq.ExtractMin()
		label := pqNode.GetItem()
		u := label.node
		travelTime := pqNode.GetRank()

		if _, ok := d.settled[u]; ok {
			continue
		}
		d.settled[u] = struct{}{}
		d.numSettledNodes++

		if u == t {
			// weights are non-negative, the first time t is settled its travel time is final
			return travelTime, label.path, true
		}

		d.topology.ForOutEdgesOf(u, func(v string, weight float64) {
			if _, ok := d.settled[v]; ok {
				return
			}
			path := make([]string, len(label.path)+1)
			copy(path, label.path)
			path[len(label.path)] = v
			d.pq.Insert(da.NewPriorityQueueNode(travelTime+weight, routeLabel{node: v, path: path}))
		})
	}

	return pkg.INF_WEIGHT, nil, false
}

func (d *Dijkstra) GetNumSettledNodes() int {
	return d.numSettledNodes
}

// FindFastestRoute runs one query on topology. It keeps no state between calls.
func FindFastestRoute(topology *da.Topology, start, end string) (float64, []string, bool) {
	return NewDijkstra(topology).ShortestPath(start, end)
}
