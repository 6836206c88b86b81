package congestion

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/util"
)

// LaneID identifies the approach of one directed road into its head junction.
type LaneID string

func NewLaneID(from, to string) LaneID {
	return LaneID(fmt.Sprintf("%s_to_%s", from, to))
}

func LaneIDOf(e datastructure.Edge) LaneID {
	return NewLaneID(e.From, e.To)
}

// Intersection owns the queues of its incoming lanes. One mutex guards every lane of the
// intersection, so enqueue, drain and reads of the same junction never interleave.
type Intersection struct {
	name string

	mu    sync.Mutex
	lanes map[LaneID]int
}

func NewIntersection(name string) *Intersection {
	return &Intersection{
		name:  name,
		lanes: make(map[LaneID]int),
	}
}

func (in *Intersection) Name() string {
	return in.name
}

// AddIncomingLane registers lane with an empty queue. Registering twice keeps the queue.
func (in *Intersection) AddIncomingLane(lane LaneID) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if _, ok := in.lanes[lane]; !ok {
		in.lanes[lane] = 0
	}
}

// Enqueue appends count vehicles to lane. Unregistered lanes are left untouched and
// ErrUnknownLane is returned.
func (in *Intersection) Enqueue(lane LaneID, count int) error {
	if count < 0 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "cannot enqueue %d vehicles on %s", count, lane)
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if _, ok := in.lanes[lane]; !ok {
		return util.WrapErrorf(nil, util.ErrUnknownLane, "lane %s is not an approach of %s", lane, in.name)
	}
	in.lanes[lane] += count
	return nil
}

// QueueLength is 0 for unknown lanes.
func (in *Intersection) QueueLength(lane LaneID) int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.lanes[lane]
}

// RunSignalCycle gives one green phase to the lane with the longest queue, ties going to the
// smallest lane id, and releases up to batchSize vehicles from it. With every lane empty no
// lane is selected. A non-positive batchSize selects the lane but releases nothing.
func (in *Intersection) RunSignalCycle(batchSize int) (LaneID, int) {
	in.mu.Lock()
	defer in.mu.Unlock()

	var (
		selected LaneID
		longest  int
	)
	for lane, queued := range in.lanes {
		if queued > longest || (queued == longest && queued > 0 && lane < selected) {
			selected = lane
			longest = queued
		}
	}
	if longest == 0 {
		return "", 0
	}

	drained := max(batchSize, 0)
	if longest < drained {
		drained = longest
	}
	in.lanes[selected] = longest - drained
	return selected, drained
}

type LaneQueue struct {
	Lane   LaneID
	Queued int
}

// Lanes returns a consistent copy of every queue, sorted by lane id.
func (in *Intersection) Lanes() []LaneQueue {
	in.mu.Lock()
	queues := make([]LaneQueue, 0, len(in.lanes))
	for lane, queued := range in.lanes {
		queues = append(queues, LaneQueue{Lane: lane, Queued: queued})
	}
	in.mu.Unlock()

	sort.Slice(queues, func(i, j int) bool {
		return queues[i].Lane < queues[j].Lane
	})
	return queues
}

func (in *Intersection) TotalQueued() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	total := 0
	for _, queued := range in.lanes {
		total += queued
	}
	return total
}
