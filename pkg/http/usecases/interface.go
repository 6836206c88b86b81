package usecases

import (
	"context"

	da "github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/engine"
	"github.com/lintang-b-s/livetraffic/pkg/engine/routing"
	"github.com/lintang-b-s/livetraffic/pkg/geo"
	"github.com/lintang-b-s/livetraffic/pkg/spatialindex"
)

type RoutingEngine interface {
	ShortestPath(start, end string) (routing.Route, bool)
	PathCoordinates(path []string) ([]geo.Coordinate, bool)
}

type SpatialIndex interface {
	Junctions() []spatialindex.Junction
	NearestJunction(lat, lon, radius float64) (spatialindex.JunctionDistance, bool)
}

type TrafficEngine interface {
	TrafficSnapshot() engine.TrafficSnapshot
	TrafficSnapshotOf(live *da.Topology) engine.TrafficSnapshot
	SubscribeTraffic() (<-chan *da.Topology, func())
	Intersections() []engine.IntersectionState
	Simulate(ctx context.Context) error
	Update(ctx context.Context) error
}
