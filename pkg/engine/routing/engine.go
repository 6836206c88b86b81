package routing

import (
	lru "github.com/hashicorp/golang-lru/v2"
	da "github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"go.uber.org/zap"
)

type Route struct {
	Start      string
	End        string
	TravelTime float64
	Path       []string
	// Version of the live topology the route was computed on.
	Version uint64
}

// routeCacheKey includes the topology version: a published snapshot never changes, so a cached
// route stays correct for its version and a newer publish simply misses.
type routeCacheKey struct {
	version    uint64
	start, end string
}

type RoutingEngine struct {
	snapshots SnapshotSource
	cache     *lru.Cache[routeCacheKey, Route]
	logger    *zap.Logger
}

// NewRoutingEngine builds the query engine. cacheSize <= 0 disables the route cache.
func NewRoutingEngine(snapshots SnapshotSource, cacheSize int, logger *zap.Logger) (*RoutingEngine, error) {
	re := &RoutingEngine{
		snapshots: snapshots,
		logger:    logger,
	}
	if cacheSize > 0 {
		cache, err := lru.New[routeCacheKey, Route](cacheSize)
		if err != nil {
			return nil, err
		}
		re.cache = cache
	}
	return re, nil
}

// ShortestPath answers one route query on the current live snapshot. The snapshot is loaded
// once, so the whole query sees a single topology even if a new one is published meanwhile.
func (re *RoutingEngine) ShortestPath(start, end string) (Route, bool) {
	snapshot := re.snapshots.GetLiveSnapshot()
	return re.ShortestPathOn(snapshot, start, end)
}

func (re *RoutingEngine) ShortestPathOn(snapshot *da.Topology, start, end string) (Route, bool) {
	key := routeCacheKey{version: snapshot.Version(), start: start, end: end}
	if re.cache != nil {
		if route, ok := re.cache.Get(key); ok {
			route.Path = append([]string(nil), route.Path...)
			return route, true
		}
	}

	dijkstra := NewDijkstra(snapshot)
	travelTime, path, found := dijkstra.ShortestPath(start, end)
	if !found {
		re.logger.Debug("no route found",
			zap.String("start", start), zap.String("end", end), zap.Uint64("version", snapshot.Version()),
			zap.Int("settled_nodes", dijkstra.GetNumSettledNodes()))
		return Route{}, false
	}
	re.logger.Debug("route found",
		zap.String("start", start), zap.String("end", end), zap.Uint64("version", snapshot.Version()),
		zap.Int("settled_nodes", dijkstra.GetNumSettledNodes()))

	route := Route{
		Start:      start,
		End:        end,
		TravelTime: travelTime,
		Path:       path,
		Version:    snapshot.Version(),
	}
	if re.cache != nil {
		re.cache.Add(key, Route{Start: start, End: end, TravelTime: travelTime,
			Path: append([]string(nil), path...), Version: snapshot.Version()})
	}
	return route, true
}
