package usecases

import (
	"errors"
	"strings"

	"github.com/lintang-b-s/livetraffic/pkg/geo"
	"github.com/lintang-b-s/livetraffic/pkg/spatialindex"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"go.uber.org/zap"
)

var (
	ErrPathNotFound     = errors.New("path not found")
	ErrJunctionNotFound = errors.New("no junction nearby")
)

type RouteResult struct {
	Start      string
	End        string
	TravelTime float64
	Path       []string
	Version    uint64
	// DistanceKM and Polyline are only set when every junction on the path has coordinates.
	DistanceKM  float64
	Polyline    string
	HasGeometry bool
}

type RoutingService struct {
	log          *zap.Logger
	engine       RoutingEngine
	spatialIndex SpatialIndex
	searchRadius float64
}

func NewRoutingService(log *zap.Logger, engine RoutingEngine, spatialIndex SpatialIndex,
	searchRadius float64) *RoutingService {
	return &RoutingService{
		log:          log,
		engine:       engine,
		spatialIndex: spatialIndex,
		searchRadius: searchRadius,
	}
}

func (rs *RoutingService) ShortestPath(start, end string) (RouteResult, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return RouteResult{}, util.WrapErrorf(nil, util.ErrBadParamInput, "Missing 'start' or 'end' parameter")
	}

	route, found := rs.engine.ShortestPath(start, end)
	if !found {
		return RouteResult{}, util.WrapErrorf(ErrPathNotFound, util.ErrNotFound, "No path found from %s to %s", start, end)
	}

	res := RouteResult{
		Start:      route.Start,
		End:        route.End,
		TravelTime: route.TravelTime,
		Path:       route.Path,
		Version:    route.Version,
	}
	if coords, ok := rs.engine.PathCoordinates(route.Path); ok {
		res.DistanceKM = util.RoundFloat(geo.PathLength(coords), 3)
		res.Polyline = geo.PolylineFromCoords(coords)
		res.HasGeometry = true
	}
	return res, nil
}

func (rs *RoutingService) NearestJunction(lat, lon float64) (spatialindex.JunctionDistance, error) {
	nearest, ok := rs.spatialIndex.NearestJunction(lat, lon, rs.searchRadius)
	if !ok {
		return spatialindex.JunctionDistance{}, util.WrapErrorf(ErrJunctionNotFound, util.ErrNotFound,
			"no junction within %.2f km of %f,%f", rs.searchRadius, lat, lon)
	}
	return nearest, nil
}

func (rs *RoutingService) Junctions() []spatialindex.Junction {
	return rs.spatialIndex.Junctions()
}
