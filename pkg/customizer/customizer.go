package customizer

import (
	"time"

	"github.com/lintang-b-s/livetraffic/pkg/costfunction"
	da "github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"go.uber.org/zap"
)

// CongestionSource supplies the queue length of the lane at the head of each road.
type CongestionSource interface {
	QueueLength(e da.Edge) int
}

type TopologyPublisher interface {
	Base() *da.BaseTopology
	PublishLiveTopology(t *da.Topology) (*da.Topology, error)
}

// RecomputeLiveTopology derives a complete new live topology from the base topology and the
// current congestion: live = base + delay(queue). It never touches a previously built topology,
// and with unchanged congestion it returns bit-identical weights.
func RecomputeLiveTopology(base *da.BaseTopology, congestion CongestionSource,
	costFunction costfunction.CostFunction) (*da.Topology, error) {

	weights := make([]float64, base.NumberOfEdges())

	var err error
	base.ForEdges(func(id da.Index, e da.Edge, baseWeight float64) {
		if err != nil {
			return
		}
		queued := congestion.QueueLength(e)
		delay := costFunction.GetDelay(queued)
		if queued < 0 || delay < 0 {
			err = util.WrapErrorf(nil, util.ErrInvariantViolation, "lane of %s has negative congestion %d", e, queued)
			return
		}
		weights[id] = costFunction.GetWeight(baseWeight, queued)
	})
	if err != nil {
		return nil, err
	}

	return da.NewTopology(base, weights)
}

// Customizer is the feedback loop: it turns congestion into live travel times and publishes them.
type Customizer struct {
	logger       *zap.Logger
	store        TopologyPublisher
	congestion   CongestionSource
	costFunction costfunction.CostFunction
}

func NewCustomizer(store TopologyPublisher, congestion CongestionSource,
	costFunction costfunction.CostFunction, logger *zap.Logger) *Customizer {
	return &Customizer{
		logger:       logger,
		store:        store,
		congestion:   congestion,
		costFunction: costFunction,
	}
}

// Customize runs one feedback cycle. Errors wrap util.ErrInvariantViolation.
func (c *Customizer) Customize() (*da.Topology, error) {
	start := time.Now()

	live, err := RecomputeLiveTopology(c.store.Base(), c.congestion, c.costFunction)
	if err != nil {
		return nil, err
	}

	published, err := c.store.PublishLiveTopology(live)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("published live topology",
		zap.Uint64("version", published.Version()),
		zap.Int("edges", published.NumberOfEdges()),
		zap.Duration("took", time.Since(start)))
	return published, nil
}
