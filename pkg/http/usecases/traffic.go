package usecases

import (
	"context"
	"errors"

	da "github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/engine"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"go.uber.org/zap"
)

// FatalHandler is called when a cycle triggered on demand reports corrupted internal state.
type FatalHandler func(cycle string, err error)

type TrafficService struct {
	log     *zap.Logger
	engine  TrafficEngine
	onFatal FatalHandler
}

type TrafficServiceOption func(*TrafficService)

// WithFatalHandler replaces the default handler, which logs at fatal level and exits.
func WithFatalHandler(h FatalHandler) TrafficServiceOption {
	return func(ts *TrafficService) {
		ts.onFatal = h
	}
}

func NewTrafficService(log *zap.Logger, engine TrafficEngine, opts ...TrafficServiceOption) *TrafficService {
	ts := &TrafficService{
		log:    log,
		engine: engine,
	}
	ts.onFatal = func(cycle string, err error) {
		ts.log.Fatal("manual cycle found corrupted state", zap.String("cycle", cycle), zap.Error(err))
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

func (ts *TrafficService) TrafficSnapshot() engine.TrafficSnapshot {
	return ts.engine.TrafficSnapshot()
}

func (ts *TrafficService) Intersections() []engine.IntersectionState {
	return ts.engine.Intersections()
}

// Simulate runs one simulate cycle on demand, outside the schedule.
func (ts *TrafficService) Simulate(ctx context.Context) error {
	if err := ts.engine.Simulate(ctx); err != nil {
		ts.failed("simulate", err)
		return err
	}
	return nil
}

// Update runs one feedback cycle on demand and returns the traffic it published.
func (ts *TrafficService) Update(ctx context.Context) (engine.TrafficSnapshot, error) {
	if err := ts.engine.Update(ctx); err != nil {
		ts.failed("update", err)
		return engine.TrafficSnapshot{}, err
	}
	return ts.engine.TrafficSnapshot(), nil
}

// failed treats an invariant violation the same way the scheduled cycles do.
func (ts *TrafficService) failed(cycle string, err error) {
	if errors.Is(err, util.ErrInvariantViolation) {
		ts.onFatal(cycle, err)
		return
	}
	ts.log.Error("manual cycle failed", zap.String("cycle", cycle), zap.Error(err))
}

// Subscribe streams a traffic snapshot for every published live topology until ctx is done.
func (ts *TrafficService) Subscribe(ctx context.Context) <-chan engine.TrafficSnapshot {
	topologies, unsubscribe := ts.engine.SubscribeTraffic()
	out := make(chan engine.TrafficSnapshot, 1)
	go func() {
		defer close(out)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case t, ok := <-topologies:
				if !ok {
					return
				}
				select {
				case out <- ts.snapshotOf(t):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (ts *TrafficService) snapshotOf(t *da.Topology) engine.TrafficSnapshot {
	return ts.engine.TrafficSnapshotOf(t)
}
