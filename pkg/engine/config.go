package engine

import (
	"github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/geo"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"github.com/spf13/viper"
)

// RoadConfig is one directed road of the static topology.
type RoadConfig struct {
	From   string  `mapstructure:"from"`
	To     string  `mapstructure:"to"`
	Weight float64 `mapstructure:"weight"`
}

type JunctionConfig struct {
	Name string  `mapstructure:"name"`
	Lat  float64 `mapstructure:"lat"`
	Lon  float64 `mapstructure:"lon"`
}

// ConfigFromViper reads the engine settings, see util.SetDefaults for the defaults.
func ConfigFromViper() Config {
	return Config{
		BurstCount:       viper.GetInt("BURST_COUNT"),
		MinCars:          viper.GetInt("MIN_CARS"),
		MaxCars:          viper.GetInt("MAX_CARS"),
		SignalBatchSize:  viper.GetInt("SIGNAL_BATCH_SIZE"),
		RouteCacheSize:   viper.GetInt("ROUTE_CACHE_SIZE"),
		SimulateInterval: viper.GetDuration("SIMULATE_INTERVAL"),
		UpdateInterval:   viper.GetDuration("UPDATE_INTERVAL"),
	}
}

// LoadTopology reads the "topology" and "junctions" lists. Roads keep their configured order,
// which is the neighbor order of each junction.
func LoadTopology(v *viper.Viper) (datastructure.AdjacencyList, map[string]geo.Coordinate, error) {
	var roads []RoadConfig
	if err := v.UnmarshalKey("topology", &roads); err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid topology configuration")
	}
	if len(roads) == 0 {
		return nil, nil, util.WrapErrorf(nil, util.ErrBadParamInput, "topology configuration has no roads")
	}

	var junctionConfigs []JunctionConfig
	if err := v.UnmarshalKey("junctions", &junctionConfigs); err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid junctions configuration")
	}

	return AdjacencyFromRoads(roads), junctionsFromConfig(junctionConfigs), nil
}

func AdjacencyFromRoads(roads []RoadConfig) datastructure.AdjacencyList {
	adj := make(datastructure.AdjacencyList)
	for _, r := range roads {
		adj[r.From] = append(adj[r.From], datastructure.NewArc(r.To, r.Weight))
	}
	return adj
}

func junctionsFromConfig(configs []JunctionConfig) map[string]geo.Coordinate {
	junctions := make(map[string]geo.Coordinate, len(configs))
	for _, j := range configs {
		junctions[j.Name] = geo.NewCoordinate(j.Lat, j.Lon)
	}
	return junctions
}
