package simulator

import (
	"sync"

	"github.com/lintang-b-s/livetraffic/pkg/congestion"
	da "github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

type Config struct {
	BurstCount      int
	MinCars         int
	MaxCars         int
	SignalBatchSize int
}

type Result struct {
	Bursts  []Burst
	Signals []congestion.SignalResult
}

func (r Result) Drained() int {
	total := 0
	for _, s := range r.Signals {
		total += s.Drained
	}
	return total
}

// Simulator drives the congestion network: vehicle arrivals, then one green phase at every
// intersection.
type Simulator struct {
	base    *da.BaseTopology
	network *congestion.Network
	config  Config
	logger  *zap.Logger

	// rand.Rand is not safe for concurrent use
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewSimulator(base *da.BaseTopology, network *congestion.Network, rng *rand.Rand,
	config Config, logger *zap.Logger) *Simulator {
	return &Simulator{
		base:    base,
		network: network,
		config:  config,
		logger:  logger,
		rng:     rng,
	}
}

func NewRandSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Simulate runs one simulate cycle.
func (s *Simulator) Simulate() (Result, error) {
	s.rngMu.Lock()
	bursts, err := GenerateBursts(s.base, s.rng, s.network, s.config.BurstCount, s.config.MinCars, s.config.MaxCars)
	s.rngMu.Unlock()
	if err != nil {
		return Result{}, err
	}

	for _, b := range bursts {
		s.logger.Debug("vehicles arrived", zap.String("lane", string(b.Lane)), zap.Int("count", b.Count))
	}

	signals := s.network.RunAllSignals(s.config.SignalBatchSize)
	for _, sig := range signals {
		if sig.Drained > 0 {
			s.logger.Debug("green light",
				zap.String("intersection", sig.Intersection),
				zap.String("lane", string(sig.Lane)),
				zap.Int("passed", sig.Drained))
		}
	}

	return Result{Bursts: bursts, Signals: signals}, nil
}
