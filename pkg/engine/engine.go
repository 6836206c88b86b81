package engine

import (
	"context"
	"time"

	"github.com/lintang-b-s/livetraffic/pkg"
	"github.com/lintang-b-s/livetraffic/pkg/congestion"
	"github.com/lintang-b-s/livetraffic/pkg/costfunction"
	"github.com/lintang-b-s/livetraffic/pkg/customizer"
	da "github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/engine/routing"
	"github.com/lintang-b-s/livetraffic/pkg/geo"
	"github.com/lintang-b-s/livetraffic/pkg/graphstore"
	"github.com/lintang-b-s/livetraffic/pkg/metrics"
	"github.com/lintang-b-s/livetraffic/pkg/scheduler"
	"github.com/lintang-b-s/livetraffic/pkg/simulator"
	"github.com/lintang-b-s/livetraffic/pkg/spatialindex"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

type Config struct {
	BurstCount      int
	MinCars         int
	MaxCars         int
	SignalBatchSize int
	RouteCacheSize  int

	SimulateInterval time.Duration
	UpdateInterval   time.Duration
}

// Validate rejects settings the simulate and update cycles cannot run with.
func (c Config) Validate() error {
	switch {
	case c.BurstCount < 0:
		return util.WrapErrorf(nil, util.ErrBadParamInput, "burst count %d must not be negative", c.BurstCount)
	case c.MinCars < 0 || c.MinCars > c.MaxCars:
		return util.WrapErrorf(nil, util.ErrBadParamInput, "invalid vehicles per burst range [%d,%d]", c.MinCars, c.MaxCars)
	case c.MaxCars > pkg.MAX_CARS_PER_BURST:
		return util.WrapErrorf(nil, util.ErrBadParamInput, "max cars %d exceeds %d", c.MaxCars, pkg.MAX_CARS_PER_BURST)
	case c.SignalBatchSize <= 0:
		return util.WrapErrorf(nil, util.ErrBadParamInput, "signal batch size %d must be positive", c.SignalBatchSize)
	case c.SimulateInterval <= 0 || c.UpdateInterval <= 0:
		return util.WrapErrorf(nil, util.ErrBadParamInput, "simulate interval %v and update interval %v must be positive",
			c.SimulateInterval, c.UpdateInterval)
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		BurstCount:       pkg.DEFAULT_BURST_COUNT,
		MinCars:          pkg.DEFAULT_MIN_CARS,
		MaxCars:          pkg.DEFAULT_MAX_CARS,
		SignalBatchSize:  pkg.DEFAULT_SIGNAL_BATCH_SIZE,
		RouteCacheSize:   pkg.DEFAULT_ROUTE_CACHE_SIZE,
		SimulateInterval: 5 * time.Second,
		UpdateInterval:   10 * time.Second,
	}
}

// Engine is the state of one live-traffic city: graph store, congestion, feedback loop,
// simulation and route queries. Engines are independent of each other.
type Engine struct {
	logger *zap.Logger
	config Config

	store         *graphstore.Store
	network       *congestion.Network
	customizer    *customizer.Customizer
	simulator     *simulator.Simulator
	routingEngine *routing.RoutingEngine
	spatialIndex  *spatialindex.Rtree
}

// NewEngine builds an engine from the static topology configuration. junctions may be empty;
// coordinates only enrich route responses and enable nearest-junction lookups.
func NewEngine(adj da.AdjacencyList, junctions map[string]geo.Coordinate, config Config,
	rng *rand.Rand, logger *zap.Logger) (*Engine, error) {

	logger.Info("Starting live traffic engine...")
	if err := config.Validate(); err != nil {
		return nil, err
	}
	base, err := da.NewBaseTopology(adj)
	if err != nil {
		return nil, err
	}
	components := base.StronglyConnectedComponents()
	logger.Info("base topology loaded",
		zap.Int("junctions", base.NumberOfVertices()), zap.Int("roads", base.NumberOfEdges()),
		zap.Int("strongly_connected_components", len(components)))
	if len(components) > 1 {
		logger.Warn("some junction pairs have no route in at least one direction",
			zap.Any("components", components))
	}

	if !scheduler.IsMultipleOf(config.UpdateInterval, config.SimulateInterval) {
		logger.Warn("update interval is not a multiple of the simulate interval, feedback may observe unsettled congestion",
			zap.Duration("simulate_interval", config.SimulateInterval),
			zap.Duration("update_interval", config.UpdateInterval))
	}

	for name, c := range junctions {
		if !base.HasNode(name) {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "coordinates given for unknown junction %s", name)
		}
		if !c.Valid() {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "junction %s has invalid coordinates %v", name, c)
		}
	}

	store := graphstore.New(base)
	network := congestion.NewNetwork(base)
	routingEngine, err := routing.NewRoutingEngine(store, config.RouteCacheSize, logger)
	if err != nil {
		return nil, err
	}

	rt := spatialindex.NewRtree()
	rt.Build(junctions, logger)

	return &Engine{
		logger:        logger,
		config:        config,
		store:         store,
		network:       network,
		customizer:    customizer.NewCustomizer(store, network, costfunction.NewCongestionCostFunction(), logger),
		simulator:     simulator.NewSimulator(base, network, rng, simulator.Config{BurstCount: config.BurstCount, MinCars: config.MinCars, MaxCars: config.MaxCars, SignalBatchSize: config.SignalBatchSize}, logger),
		routingEngine: routingEngine,
		spatialIndex:  rt,
	}, nil
}

func (e *Engine) GetStore() *graphstore.Store {
	return e.store
}

func (e *Engine) GetNetwork() *congestion.Network {
	return e.network
}

// ShortestPath answers a route query on the current live topology.
func (e *Engine) ShortestPath(start, end string) (routing.Route, bool) {
	begin := time.Now()
	route, found := e.routingEngine.ShortestPath(start, end)
	result := "found"
	if !found {
		result = "not_found"
	}
	metrics.ObserveRouteQuery(result, time.Since(begin).Seconds())
	return route, found
}

// PathCoordinates returns the coordinates of path; ok is false if any junction has none.
func (e *Engine) PathCoordinates(path []string) ([]geo.Coordinate, bool) {
	coords := make([]geo.Coordinate, 0, len(path))
	for _, name := range path {
		c, ok := e.spatialIndex.GetCoordinate(name)
		if !ok {
			return nil, false
		}
		coords = append(coords, c)
	}
	return coords, true
}

// Simulate runs one simulate cycle: vehicle arrivals followed by every intersection's signal cycle.
func (e *Engine) Simulate(ctx context.Context) error {
	if util.StopConcurrentOperation(ctx) {
		return ctx.Err()
	}
	res, err := e.simulator.Simulate()
	if err != nil {
		return err
	}

	arrived := 0
	for _, b := range res.Bursts {
		arrived += b.Count
	}
	queued := e.network.TotalQueued()
	metrics.AddVehicles(arrived, res.Drained())
	metrics.SetVehiclesQueued(queued)

	e.logger.Info("simulated traffic",
		zap.Int("bursts", len(res.Bursts)),
		zap.Int("arrived", arrived),
		zap.Int("drained", res.Drained()),
		zap.Int("queued", queued))
	return nil
}

// Update runs one feedback cycle and publishes its live topology.
func (e *Engine) Update(ctx context.Context) error {
	if util.StopConcurrentOperation(ctx) {
		return ctx.Err()
	}
	published, err := e.customizer.Customize()
	if err != nil {
		metrics.IncFeedbackCycle("failed")
		return err
	}
	metrics.IncFeedbackCycle("published")
	metrics.SetLiveTopologyVersion(published.Version())

	e.logger.Info("updated live traffic weights", zap.Uint64("version", published.Version()))
	return nil
}

// Tasks returns the simulate and update cycles for a scheduler.
func (e *Engine) Tasks() []scheduler.Task {
	return []scheduler.Task{
		{Name: "simulate", Interval: e.config.SimulateInterval, Run: e.Simulate},
		{Name: "update", Interval: e.config.UpdateInterval, Run: e.Update},
	}
}

type RoadTraffic struct {
	Start    string
	End      string
	LiveTime float64
	// BaseTime is -1 when the road has no base weight.
	BaseTime float64
	Level    pkg.CongestionLevel
}

type TrafficSnapshot struct {
	Version uint64
	Roads   []RoadTraffic
}

// SubscribeTraffic delivers every live topology published from now on.
func (e *Engine) SubscribeTraffic() (<-chan *da.Topology, func()) {
	return e.store.Subscribe()
}

// TrafficSnapshot reports every road of one live topology with its base weight and congestion level.
func (e *Engine) TrafficSnapshot() TrafficSnapshot {
	return e.TrafficSnapshotOf(e.store.GetLiveSnapshot())
}

func (e *Engine) TrafficSnapshotOf(live *da.Topology) TrafficSnapshot {
	snap := TrafficSnapshot{
		Version: live.Version(),
		Roads:   make([]RoadTraffic, 0, live.NumberOfEdges()),
	}
	live.ForEdges(func(road da.Edge, liveWeight float64) {
		baseWeight, ok := e.store.GetBaseWeight(road)
		if !ok {
			baseWeight = -1
		}
		snap.Roads = append(snap.Roads, RoadTraffic{
			Start:    road.From,
			End:      road.To,
			LiveTime: liveWeight,
			BaseTime: baseWeight,
			Level:    pkg.GetCongestionLevel(liveWeight, baseWeight),
		})
	})
	return snap
}

type IntersectionState struct {
	Name  string
	Lanes []congestion.LaneQueue
}

// Intersections dumps the lane queues of every intersection, ordered by name.
func (e *Engine) Intersections() []IntersectionState {
	names := e.network.Names()
	states := make([]IntersectionState, 0, len(names))
	for _, name := range names {
		in, _ := e.network.GetIntersection(name)
		states = append(states, IntersectionState{Name: name, Lanes: in.Lanes()})
	}
	return states
}

// Junctions returns every junction with known coordinates, ordered by name.
func (e *Engine) Junctions() []spatialindex.Junction {
	nodes := e.store.Base().Nodes()
	junctions := make([]spatialindex.Junction, 0, len(nodes))
	for _, name := range nodes {
		if c, ok := e.spatialIndex.GetCoordinate(name); ok {
			junctions = append(junctions, spatialindex.Junction{Name: name, Coordinate: c})
		}
	}
	return junctions
}

func (e *Engine) NearestJunction(lat, lon, radius float64) (spatialindex.JunctionDistance, bool) {
	return e.spatialIndex.Nearest(lat, lon, radius)
}
