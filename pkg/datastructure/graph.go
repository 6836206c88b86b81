package datastructure

import (
	"fmt"
	"math"
	"sort"

	"github.com/lintang-b-s/livetraffic/pkg/util"
)

// Edge is a directed road segment between two junctions, identified by their names.
type Edge struct {
	From string
	To   string
}

func NewEdge(from, to string) Edge {
	return Edge{From: from, To: to}
}

func (e Edge) String() string {
	return fmt.Sprintf("%s->%s", e.From, e.To)
}

// Arc is one adjacency entry of the static topology configuration.
type Arc struct {
	To     string  `mapstructure:"to" json:"to"`
	Weight float64 `mapstructure:"weight" json:"weight"`
}

func NewArc(to string, weight float64) Arc {
	return Arc{To: to, Weight: weight}
}

// AdjacencyList is the configuration shape of the base topology: node -> list of (neighbor, weight).
type AdjacencyList map[string][]Arc

// OutEdge is an edge as seen from its tail.
type OutEdge struct {
	edgeId Index
	head   string
}

func (e OutEdge) GetEdgeId() Index {
	return e.edgeId
}

func (e OutEdge) GetHead() string {
	return e.head
}

type Index uint32

// BaseTopology is the fixed road network. It is never mutated after NewBaseTopology returns,
// so it is shared between goroutines without synchronization.
type BaseTopology struct {
	nodes    []string
	nodeSet  map[string]struct{}
	edges    []Edge
	weights  []float64
	edgeIds  map[Edge]Index
	outEdges map[string][]OutEdge
	inEdges  map[string][]Index
}

// NewBaseTopology builds the base topology. Nodes are every adjacency key plus every neighbor.
// Edge ids follow node name order and then the configured neighbor order.
func NewBaseTopology(adj AdjacencyList) (*BaseTopology, error) {
	nodeSet := make(map[string]struct{}, len(adj))
	for u, arcs := range adj {
		if u == "" {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "junction name must not be empty")
		}
		nodeSet[u] = struct{}{}
		for _, arc := range arcs {
			if arc.To == "" {
				return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "road from %s has an empty destination", u)
			}
			nodeSet[arc.To] = struct{}{}
		}
	}

	nodes := make([]string, 0, len(nodeSet))
	for u := range nodeSet {
		nodes = append(nodes, u)
	}
	sort.Strings(nodes)

	bt := &BaseTopology{
		nodes:    nodes,
		nodeSet:  nodeSet,
		edges:    make([]Edge, 0),
		weights:  make([]float64, 0),
		edgeIds:  make(map[Edge]Index),
		outEdges: make(map[string][]OutEdge, len(nodes)),
		inEdges:  make(map[string][]Index, len(nodes)),
	}

	for _, u := range nodes {
		for _, arc := range adj[u] {
			if arc.Weight < 0 {
				return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "road %s->%s has negative travel time %v", u, arc.To, arc.Weight)
			}
			if math.IsNaN(arc.Weight) || math.IsInf(arc.Weight, 0) {
				return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "road %s->%s has non-finite travel time %v", u, arc.To, arc.Weight)
			}
			e := NewEdge(u, arc.To)
			if _, dup := bt.edgeIds[e]; dup {
				return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "road %s is configured twice", e)
			}
			id := Index(len(bt.edges))
			bt.edges = append(bt.edges, e)
			bt.weights = append(bt.weights, arc.Weight)
			bt.edgeIds[e] = id
			bt.outEdges[u] = append(bt.outEdges[u], OutEdge{edgeId: id, head: arc.To})
			bt.inEdges[arc.To] = append(bt.inEdges[arc.To], id)
		}
	}

	return bt, nil
}

// Nodes returns junction names in ascending order.
func (bt *BaseTopology) Nodes() []string {
	nodes := make([]string, len(bt.nodes))
	copy(nodes, bt.nodes)
	return nodes
}

func (bt *BaseTopology) HasNode(u string) bool {
	_, ok := bt.nodeSet[u]
	return ok
}

func (bt *BaseTopology) NumberOfVertices() int {
	return len(bt.nodes)
}

func (bt *BaseTopology) NumberOfEdges() int {
	return len(bt.edges)
}

func (bt *BaseTopology) GetEdgeId(e Edge) (Index, bool) {
	id, ok := bt.edgeIds[e]
	return id, ok
}

// GetBaseWeight returns the nominal travel time of e.
func (bt *BaseTopology) GetBaseWeight(e Edge) (float64, bool) {
	id, ok := bt.edgeIds[e]
	if !ok {
		return 0, false
	}
	return bt.weights[id], true
}

func (bt *BaseTopology) GetWeightById(id Index) float64 {
	return bt.weights[id]
}

// EdgeSet returns every directed edge in edge id order.
func (bt *BaseTopology) EdgeSet() []Edge {
	edges := make([]Edge, len(bt.edges))
	copy(edges, bt.edges)
	return edges
}

func (bt *BaseTopology) GetOutDegree(u string) int {
	return len(bt.outEdges[u])
}

func (bt *BaseTopology) GetOutEdges(u string) []OutEdge {
	return bt.outEdges[u]
}

func (bt *BaseTopology) ForOutEdgesOf(u string, handle func(e OutEdge)) {
	for _, e := range bt.outEdges[u] {
		handle(e)
	}
}

// ForInEdgesOf visits the edges whose head is v.
func (bt *BaseTopology) ForInEdgesOf(v string, handle func(e Edge)) {
	for _, id := range bt.inEdges[v] {
		handle(bt.edges[id])
	}
}

func (bt *BaseTopology) ForEdges(handle func(id Index, e Edge, weight float64)) {
	for id, e := range bt.edges {
		handle(Index(id), e, bt.weights[id])
	}
}

