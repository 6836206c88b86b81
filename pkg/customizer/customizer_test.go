package customizer

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/lintang-b-s/livetraffic/pkg/congestion"
	"github.com/lintang-b-s/livetraffic/pkg/costfunction"
	da "github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/graphstore"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func bengaluruBase(t *testing.T) *da.BaseTopology {
	base, err := da.NewBaseTopology(da.AdjacencyList{
		"Koramangala": {da.NewArc("Silk Board", 10), da.NewArc("Marath_W", 25)},
		"Silk Board":  {da.NewArc("Koramangala", 10), da.NewArc("Marath_E", 15)},
		"Marath_W":    {da.NewArc("Koramangala", 25), da.NewArc("Marath_E", 5)},
		"Marath_E":    {da.NewArc("Silk Board", 15), da.NewArc("Marath_W", 5), da.NewArc("Whitefield", 45)},
		"Whitefield":  {da.NewArc("Marath_E", 45)},
	})
	require.NoError(t, err)
	return base
}

type fixedCongestion map[da.Edge]int

func (f fixedCongestion) QueueLength(e da.Edge) int {
	return f[e]
}

func TestRecomputeLiveTopologyDelay(t *testing.T) {
	base := bengaluruBase(t)
	nw := congestion.NewNetwork(base)
	e := da.NewEdge("Silk Board", "Marath_E")
	require.NoError(t, nw.Enqueue(e, 12))

	live, err := RecomputeLiveTopology(base, nw, costfunction.NewCongestionCostFunction())
	require.NoError(t, err)

	w, ok := live.GetWeight(e)
	require.True(t, ok)
	assert.Equal(t, 15.0+2.0, w)

	live.ForEdges(func(other da.Edge, liveWeight float64) {
		if other == e {
			return
		}
		baseWeight, _ := base.GetBaseWeight(other)
		assert.Equal(t, baseWeight, liveWeight)
	})
}

func TestRecomputeLiveTopologyProperties(t *testing.T) {
	base := bengaluruBase(t)
	cf := costfunction.NewCongestionCostFunction()
	rd := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		queues := make(fixedCongestion)
		for _, e := range base.EdgeSet() {
			queues[e] = rd.Intn(200)
		}

		first, err := RecomputeLiveTopology(base, queues, cf)
		require.NoError(t, err)
		second, err := RecomputeLiveTopology(base, queues, cf)
		require.NoError(t, err)

		assert.True(t, first.Equal(second), "recomputation with unchanged congestion is idempotent")
		assert.NotSame(t, first, second)

		assert.Equal(t, base.NumberOfEdges(), first.NumberOfEdges())
		seen := 0
		first.ForEdges(func(e da.Edge, liveWeight float64) {
			seen++
			baseWeight, ok := base.GetBaseWeight(e)
			require.True(t, ok, "live edge %s must exist in the base topology", e)
			assert.GreaterOrEqual(t, liveWeight, baseWeight)
			assert.Equal(t, baseWeight+float64(queues[e]/5), liveWeight)
		})
		assert.Equal(t, base.NumberOfEdges(), seen)
	}
}

func TestRecomputeLiveTopologyNegativeCongestion(t *testing.T) {
	base := bengaluruBase(t)
	queues := fixedCongestion{da.NewEdge("Koramangala", "Silk Board"): -5}

	_, err := RecomputeLiveTopology(base, queues, costfunction.NewCongestionCostFunction())
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrInvariantViolation))
}

func TestCustomize(t *testing.T) {
	base := bengaluruBase(t)
	store := graphstore.New(base)
	nw := congestion.NewNetwork(base)
	c := NewCustomizer(store, nw, costfunction.NewCongestionCostFunction(), zap.NewNop())

	e := da.NewEdge("Marath_E", "Whitefield")
	require.NoError(t, nw.Enqueue(e, 27))

	published, err := c.Customize()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), published.Version())
	assert.Same(t, published, store.GetLiveSnapshot())

	w, _ := store.GetLiveSnapshot().GetWeight(e)
	assert.Equal(t, 50.0, w)

	again, err := c.Customize()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), again.Version())
	assert.True(t, again.Equal(published))
}
