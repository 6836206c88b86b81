package simulator

import (
	"errors"

	"github.com/lintang-b-s/livetraffic/pkg"
	"github.com/lintang-b-s/livetraffic/pkg/congestion"
	da "github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"golang.org/x/exp/rand"
)

// VehicleSink receives vehicles arriving over a road.
type VehicleSink interface {
	Enqueue(e da.Edge, count int) error
}

// Burst is one group of vehicles arriving at the head junction of Road.
type Burst struct {
	Road  da.Edge
	Lane  congestion.LaneID
	Count int
}

// GenerateBursts draws burstCount arrivals. Each picks an origin uniformly among junctions
// with at least one outgoing road, then one of its roads uniformly, then a vehicle count
// uniformly in [minCars, maxCars]. The same rng state yields the same bursts.
func GenerateBursts(base *da.BaseTopology, rng *rand.Rand, sink VehicleSink,
	burstCount, minCars, maxCars int) ([]Burst, error) {
	if burstCount < 0 || minCars < 0 || minCars > maxCars || maxCars > pkg.MAX_CARS_PER_BURST {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"invalid burst parameters: count=%d cars=[%d,%d]", burstCount, minCars, maxCars)
	}

	origins := make([]string, 0, base.NumberOfVertices())
	for _, u := range base.Nodes() {
		if base.GetOutDegree(u) > 0 {
			origins = append(origins, u)
		}
	}
	if len(origins) == 0 {
		return []Burst{}, nil
	}

	bursts := make([]Burst, 0, burstCount)
	for i := 0; i < burstCount; i++ {
		origin := origins[rng.Intn(len(origins))]
		outEdges := base.GetOutEdges(origin)
		road := da.NewEdge(origin, outEdges[rng.Intn(len(outEdges))].GetHead())
		count := minCars + rng.Intn(maxCars-minCars+1)

		if err := sink.Enqueue(road, count); err != nil {
			if errors.Is(err, util.ErrUnknownLane) {
				continue
			}
			return bursts, err
		}
		bursts = append(bursts, Burst{Road: road, Lane: congestion.LaneIDOf(road), Count: count})
	}
	return bursts, nil
}
