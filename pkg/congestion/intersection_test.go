package congestion

import (
	"errors"
	"sync"
	"testing"

	"github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSignalCycle(t *testing.T) {
	testCases := []struct {
		name        string
		queues      map[LaneID]int
		batchSize   int
		wantLane    LaneID
		wantDrained int
		wantLeft    int
	}{
		{
			name:        "drains a full batch from a longer queue",
			queues:      map[LaneID]int{"a_to_x": 12},
			batchSize:   10,
			wantLane:    "a_to_x",
			wantDrained: 10,
			wantLeft:    2,
		},
		{
			name:        "never drains more than queued",
			queues:      map[LaneID]int{"a_to_x": 3},
			batchSize:   10,
			wantLane:    "a_to_x",
			wantDrained: 3,
			wantLeft:    0,
		},
		{
			name:        "serves the longest lane",
			queues:      map[LaneID]int{"a_to_x": 4, "b_to_x": 9, "c_to_x": 7},
			batchSize:   5,
			wantLane:    "b_to_x",
			wantDrained: 5,
			wantLeft:    4,
		},
		{
			name:        "ties go to the smallest lane id",
			queues:      map[LaneID]int{"c_to_x": 6, "b_to_x": 6, "d_to_x": 2},
			batchSize:   10,
			wantLane:    "b_to_x",
			wantDrained: 6,
			wantLeft:    0,
		},
		{
			name:        "zero batch selects the longest lane without draining",
			queues:      map[LaneID]int{"a_to_x": 4, "b_to_x": 7},
			batchSize:   0,
			wantLane:    "b_to_x",
			wantDrained: 0,
			wantLeft:    7,
		},
		{
			name:        "empty lanes select nothing",
			queues:      map[LaneID]int{"a_to_x": 0, "b_to_x": 0},
			batchSize:   10,
			wantLane:    "",
			wantDrained: 0,
		},
		{
			name:        "no lanes",
			queues:      map[LaneID]int{},
			batchSize:   10,
			wantLane:    "",
			wantDrained: 0,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			in := NewIntersection("x")
			for lane, queued := range tt.queues {
				in.AddIncomingLane(lane)
				require.NoError(t, in.Enqueue(lane, queued))
			}

			lane, drained := in.RunSignalCycle(tt.batchSize)
			assert.Equal(t, tt.wantLane, lane)
			assert.Equal(t, tt.wantDrained, drained)
			if tt.wantLane != "" {
				assert.Equal(t, tt.wantLeft, in.QueueLength(tt.wantLane))
			}
		})
	}
}

func TestEnqueueUnknownLane(t *testing.T) {
	in := NewIntersection("x")
	in.AddIncomingLane("a_to_x")

	err := in.Enqueue("b_to_x", 4)
	assert.True(t, errors.Is(err, util.ErrUnknownLane))
	assert.Equal(t, 0, in.QueueLength("b_to_x"))
	assert.Equal(t, 0, in.TotalQueued())

	err = in.Enqueue("a_to_x", -1)
	assert.True(t, errors.Is(err, util.ErrBadParamInput))
}

func TestAddIncomingLaneKeepsQueue(t *testing.T) {
	in := NewIntersection("x")
	in.AddIncomingLane("a_to_x")
	require.NoError(t, in.Enqueue("a_to_x", 3))
	in.AddIncomingLane("a_to_x")
	assert.Equal(t, 3, in.QueueLength("a_to_x"))
}

func TestConcurrentEnqueueAndDrain(t *testing.T) {
	in := NewIntersection("x")
	in.AddIncomingLane("a_to_x")
	in.AddIncomingLane("b_to_x")

	const (
		producers   = 8
		perProducer = 500
		drainers    = 4
		perDrainer  = 300
		batchSize   = 3
	)

	var (
		wg         sync.WaitGroup
		drainedMu  sync.Mutex
		totalDrain int
	)

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			lane := LaneID("a_to_x")
			if p%2 == 1 {
				lane = "b_to_x"
			}
			for i := 0; i < perProducer; i++ {
				_ = in.Enqueue(lane, 1)
			}
		}(p)
	}

	for d := 0; d < drainers; d++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := 0
			for i := 0; i < perDrainer; i++ {
				_, drained := in.RunSignalCycle(batchSize)
				local += drained
			}
			drainedMu.Lock()
			totalDrain += local
			drainedMu.Unlock()
		}()
	}
	wg.Wait()

	queued := in.QueueLength("a_to_x") + in.QueueLength("b_to_x")
	assert.Equal(t, producers*perProducer, queued+totalDrain, "every enqueued vehicle is either queued or drained")
	assert.GreaterOrEqual(t, in.QueueLength("a_to_x"), 0)
	assert.GreaterOrEqual(t, in.QueueLength("b_to_x"), 0)
}

func TestNetwork(t *testing.T) {
	base, err := datastructure.NewBaseTopology(datastructure.AdjacencyList{
		"Koramangala": {datastructure.NewArc("Silk Board", 10), datastructure.NewArc("Marath_W", 25)},
		"Silk Board":  {datastructure.NewArc("Koramangala", 10), datastructure.NewArc("Marath_E", 15)},
		"Marath_W":    {datastructure.NewArc("Marath_E", 5)},
	})
	require.NoError(t, err)

	nw := NewNetwork(base)
	assert.Equal(t, []string{"Koramangala", "Marath_E", "Marath_W", "Silk Board"}, nw.Names())

	marathE, ok := nw.GetIntersection("Marath_E")
	require.True(t, ok)
	assert.Equal(t, []LaneQueue{
		{Lane: "Marath_W_to_Marath_E"},
		{Lane: "Silk Board_to_Marath_E"},
	}, marathE.Lanes())

	e := datastructure.NewEdge("Silk Board", "Marath_E")
	require.NoError(t, nw.Enqueue(e, 12))
	assert.Equal(t, 12, nw.QueueLength(e))
	assert.Equal(t, 0, nw.QueueLength(datastructure.NewEdge("Marath_E", "Silk Board")))

	err = nw.Enqueue(datastructure.NewEdge("Silk Board", "Nowhere"), 1)
	assert.True(t, errors.Is(err, util.ErrUnknownLane))

	require.NoError(t, nw.Enqueue(datastructure.NewEdge("Koramangala", "Silk Board"), 4))
	results := nw.RunAllSignals(10)
	assert.Equal(t, []SignalResult{
		{Intersection: "Koramangala"},
		{Intersection: "Marath_E", Lane: "Silk Board_to_Marath_E", Drained: 10},
		{Intersection: "Marath_W"},
		{Intersection: "Silk Board", Lane: "Koramangala_to_Silk Board", Drained: 4},
	}, results)
	assert.Equal(t, 2, nw.QueueLength(e))
	assert.Equal(t, 2, nw.TotalQueued())
}
