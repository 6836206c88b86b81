package graphstore

import (
	"errors"
	"sync"
	"testing"

	"github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBase(t *testing.T) *datastructure.BaseTopology {
	base, err := datastructure.NewBaseTopology(datastructure.AdjacencyList{
		"a": {datastructure.NewArc("b", 10), datastructure.NewArc("c", 4)},
		"b": {datastructure.NewArc("c", 3)},
	})
	require.NoError(t, err)
	return base
}

func TestNewStore(t *testing.T) {
	base := newTestBase(t)
	s := New(base)

	live := s.GetLiveSnapshot()
	assert.Equal(t, uint64(0), live.Version())
	assert.True(t, live.Equal(datastructure.NewTopologyFromBase(base)))
	assert.Equal(t, base.EdgeSet(), s.EdgeSet())

	w, ok := s.GetBaseWeight(datastructure.NewEdge("a", "c"))
	assert.True(t, ok)
	assert.Equal(t, 4.0, w)
}

func TestPublishLiveTopology(t *testing.T) {
	base := newTestBase(t)
	s := New(base)
	old := s.GetLiveSnapshot()

	next, err := datastructure.NewTopology(base, []float64{12, 4, 5})
	require.NoError(t, err)
	published, err := s.PublishLiveTopology(next)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), published.Version())
	assert.Same(t, published, s.GetLiveSnapshot())

	// a reader holding the old snapshot is unaffected
	w, _ := old.GetWeight(datastructure.NewEdge("a", "b"))
	assert.Equal(t, 10.0, w)
	w, _ = s.GetLiveSnapshot().GetWeight(datastructure.NewEdge("a", "b"))
	assert.Equal(t, 12.0, w)
}

func TestPublishRejectsInvariantViolations(t *testing.T) {
	base := newTestBase(t)
	s := New(base)

	otherBase := newTestBase(t)
	foreign := datastructure.NewTopologyFromBase(otherBase)

	below, err := datastructure.NewTopology(base, []float64{9, 4, 3})
	require.NoError(t, err)

	testCases := []struct {
		name string
		topo *datastructure.Topology
	}{
		{name: "nil topology", topo: nil},
		{name: "different edge set", topo: foreign},
		{name: "live weight below base", topo: below},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.PublishLiveTopology(tt.topo)
			require.Error(t, err)
			assert.True(t, errors.Is(err, util.ErrInvariantViolation))
			assert.Equal(t, uint64(0), s.GetLiveSnapshot().Version(), "nothing is installed")
		})
	}
}

func TestConcurrentReadersSeeMonotonicVersions(t *testing.T) {
	base := newTestBase(t)
	s := New(base)

	const publishes = 200
	var wg sync.WaitGroup

	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := uint64(0)
			for i := 0; i < 2000; i++ {
				snap := s.GetLiveSnapshot()
				if snap.Version() < last {
					t.Errorf("observed version %d after %d", snap.Version(), last)
					return
				}
				last = snap.Version()

				// every snapshot is complete and internally consistent
				ab, _ := snap.GetWeight(datastructure.NewEdge("a", "b"))
				bc, _ := snap.GetWeight(datastructure.NewEdge("b", "c"))
				if ab-10 != bc-3 {
					t.Errorf("mixed snapshot: a->b %v, b->c %v", ab, bc)
					return
				}
			}
		}()
	}

	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < publishes; i++ {
				delay := float64(i % 7)
				next, err := datastructure.NewTopology(base, []float64{10 + delay, 4 + delay, 3 + delay})
				if err != nil {
					t.Error(err)
					return
				}
				if _, err := s.PublishLiveTopology(next); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(2*publishes), s.GetLiveSnapshot().Version())
}

func TestSubscribe(t *testing.T) {
	base := newTestBase(t)
	s := New(base)

	ch, cancel := s.Subscribe()
	published, err := s.PublishLiveTopology(datastructure.NewTopologyFromBase(base))
	require.NoError(t, err)

	got := <-ch
	assert.Same(t, published, got)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	// publishing after unsubscribe must not panic on the closed channel
	_, err = s.PublishLiveTopology(datastructure.NewTopologyFromBase(base))
	assert.NoError(t, err)
}
