package engine

import (
	"bytes"
	"errors"
	"testing"

	da "github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/simulator"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readYAML(t *testing.T, yaml string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(yaml)))
	return v
}

func TestLoadTopology(t *testing.T) {
	v := readYAML(t, `
topology:
  - { from: "Silk Board", to: "Marath_E", weight: 15 }
  - { from: "Silk Board", to: "Koramangala", weight: 10 }
  - { from: "Koramangala", to: "Silk Board", weight: 10 }
junctions:
  - { name: "Silk Board", lat: 12.9176, lon: 77.6221 }
`)

	adj, junctions, err := LoadTopology(v)
	require.NoError(t, err)
	assert.Equal(t, []da.Arc{da.NewArc("Marath_E", 15), da.NewArc("Koramangala", 10)}, adj["Silk Board"],
		"junction names keep their case and roads keep their order")
	assert.Len(t, adj, 2)
	require.Contains(t, junctions, "Silk Board")
	assert.Equal(t, 12.9176, junctions["Silk Board"].Lat)

	e, err := NewEngine(adj, junctions, DefaultConfig(), simulator.NewRandSource(1), zap.NewNop())
	require.NoError(t, err)
	route, found := e.ShortestPath("Koramangala", "Marath_E")
	require.True(t, found)
	assert.Equal(t, 25.0, route.TravelTime)
}

func TestLoadTopologyEmpty(t *testing.T) {
	_, _, err := LoadTopology(readYAML(t, "API_PORT: 5000\n"))
	assert.True(t, errors.Is(err, util.ErrBadParamInput))
}

func TestLoadSampleConfig(t *testing.T) {
	v := viper.New()
	v.SetConfigFile("../../data/config.yaml")
	require.NoError(t, v.ReadInConfig())

	adj, junctions, err := LoadTopology(v)
	require.NoError(t, err)
	assert.Len(t, adj, 11)
	assert.Len(t, junctions, 11)

	e, err := NewEngine(adj, junctions, DefaultConfig(), simulator.NewRandSource(1), zap.NewNop())
	require.NoError(t, err)
	route, found := e.ShortestPath("Koramangala", "Whitefield")
	require.True(t, found)
	assert.Equal(t, 70.0, route.TravelTime)
}
