package datastructure

import (
	"errors"
	"math"
	"testing"

	"github.com/lintang-b-s/livetraffic/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAdjacency() AdjacencyList {
	return AdjacencyList{
		"Koramangala": {NewArc("Silk Board", 10), NewArc("Marath_W", 25)},
		"Silk Board":  {NewArc("Marath_E", 15)},
		"Marath_W":    {NewArc("Marath_E", 5)},
		"Marath_E":    {NewArc("Whitefield", 45)},
	}
}

func TestNewBaseTopology(t *testing.T) {
	bt, err := NewBaseTopology(sampleAdjacency())
	require.NoError(t, err)

	assert.Equal(t, []string{"Koramangala", "Marath_E", "Marath_W", "Silk Board", "Whitefield"}, bt.Nodes())
	assert.Equal(t, 5, bt.NumberOfEdges())
	assert.True(t, bt.HasNode("Whitefield"), "neighbor-only junctions are nodes too")
	assert.Equal(t, 0, bt.GetOutDegree("Whitefield"))

	w, ok := bt.GetBaseWeight(NewEdge("Marath_W", "Marath_E"))
	assert.True(t, ok)
	assert.Equal(t, 5.0, w)

	_, ok = bt.GetBaseWeight(NewEdge("Whitefield", "Marath_E"))
	assert.False(t, ok)

	// edge ids follow sorted tails, then configured neighbor order
	assert.Equal(t, []Edge{
		NewEdge("Koramangala", "Silk Board"),
		NewEdge("Koramangala", "Marath_W"),
		NewEdge("Marath_E", "Whitefield"),
		NewEdge("Marath_W", "Marath_E"),
		NewEdge("Silk Board", "Marath_E"),
	}, bt.EdgeSet())

	incoming := make([]Edge, 0)
	bt.ForInEdgesOf("Marath_E", func(e Edge) {
		incoming = append(incoming, e)
	})
	assert.ElementsMatch(t, []Edge{NewEdge("Marath_W", "Marath_E"), NewEdge("Silk Board", "Marath_E")}, incoming)
}

func TestNewBaseTopologyRejectsBadInput(t *testing.T) {
	testCases := []struct {
		name string
		adj  AdjacencyList
	}{
		{
			name: "negative weight",
			adj:  AdjacencyList{"a": {NewArc("b", -1)}},
		},
		{
			name: "NaN weight",
			adj:  AdjacencyList{"a": {NewArc("b", math.NaN())}},
		},
		{
			name: "infinite weight",
			adj:  AdjacencyList{"a": {NewArc("b", math.Inf(1))}},
		},
		{
			name: "duplicate road",
			adj:  AdjacencyList{"a": {NewArc("b", 1), NewArc("b", 2)}},
		},
		{
			name: "empty destination",
			adj:  AdjacencyList{"a": {NewArc("", 1)}},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBaseTopology(tt.adj)
			require.Error(t, err)
			assert.True(t, errors.Is(err, util.ErrBadParamInput))
		})
	}
}

func TestTopology(t *testing.T) {
	bt, err := NewBaseTopology(sampleAdjacency())
	require.NoError(t, err)

	live := NewTopologyFromBase(bt)
	assert.Equal(t, uint64(0), live.Version())
	live.ForEdges(func(e Edge, liveWeight float64) {
		base, ok := bt.GetBaseWeight(e)
		require.True(t, ok)
		assert.Equal(t, base, liveWeight)
	})

	_, err = NewTopology(bt, []float64{1, 2})
	assert.True(t, errors.Is(err, util.ErrInvariantViolation))

	weights := []float64{11, 25, 45, 5, 15}
	other, err := NewTopology(bt, weights)
	require.NoError(t, err)
	assert.False(t, live.Equal(other))

	w, ok := other.GetWeight(NewEdge("Koramangala", "Silk Board"))
	assert.True(t, ok)
	assert.Equal(t, 11.0, w)

	stamped := other.WithVersion(7)
	assert.Equal(t, uint64(7), stamped.Version())
	assert.True(t, stamped.Equal(other))
	assert.Equal(t, uint64(0), other.Version())
}
