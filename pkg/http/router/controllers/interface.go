package controllers

import (
	"context"

	"github.com/lintang-b-s/livetraffic/pkg/engine"
	"github.com/lintang-b-s/livetraffic/pkg/http/usecases"
	"github.com/lintang-b-s/livetraffic/pkg/spatialindex"
)

type RoutingService interface {
	ShortestPath(start, end string) (usecases.RouteResult, error)
	NearestJunction(lat, lon float64) (spatialindex.JunctionDistance, error)
	Junctions() []spatialindex.Junction
}

type TrafficService interface {
	TrafficSnapshot() engine.TrafficSnapshot
	Intersections() []engine.IntersectionState
	Simulate(ctx context.Context) error
	Update(ctx context.Context) (engine.TrafficSnapshot, error)
	Subscribe(ctx context.Context) <-chan engine.TrafficSnapshot
}
