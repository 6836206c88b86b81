package graphstore

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/lintang-b-s/livetraffic/pkg/datastructure"
	"github.com/lintang-b-s/livetraffic/pkg/util"
)

const subscriberBufferSize = 4

// Store holds the immutable base topology and the current live topology.
// Readers load the live pointer without locking; publishers are serialized by publishMu, which
// makes versions strictly increasing in the order readers observe them.
type Store struct {
	base *datastructure.BaseTopology
	live atomic.Pointer[datastructure.Topology]

	publishMu sync.Mutex
	version   uint64

	subsMu      sync.Mutex
	subscribers map[int]chan *datastructure.Topology
	nextSubId   int
}

// New installs the base topology and an initial live topology carrying the base weights.
func New(base *datastructure.BaseTopology) *Store {
	s := &Store{
		base:        base,
		subscribers: make(map[int]chan *datastructure.Topology),
	}
	s.live.Store(datastructure.NewTopologyFromBase(base))
	return s
}

func (s *Store) Base() *datastructure.BaseTopology {
	return s.base
}

// GetLiveSnapshot returns the current live topology. It never changes under the caller.
func (s *Store) GetLiveSnapshot() *datastructure.Topology {
	return s.live.Load()
}

// PublishLiveTopology validates t against the base topology and installs it as the current
// live topology. On an invariant violation nothing is installed.
func (s *Store) PublishLiveTopology(t *datastructure.Topology) (*datastructure.Topology, error) {
	if err := s.validate(t); err != nil {
		return nil, err
	}

	s.publishMu.Lock()
	s.version++
	published := t.WithVersion(s.version)
	s.live.Store(published)
	s.notify(published)
	s.publishMu.Unlock()

	return published, nil
}

func (s *Store) validate(t *datastructure.Topology) error {
	if t == nil {
		return util.WrapErrorf(nil, util.ErrInvariantViolation, "cannot publish a nil live topology")
	}
	if t.Base() != s.base || t.NumberOfEdges() != s.base.NumberOfEdges() {
		return util.WrapErrorf(nil, util.ErrInvariantViolation,
			"live topology edge set (%d edges) differs from base topology (%d edges)", t.NumberOfEdges(), s.base.NumberOfEdges())
	}

	var err error
	s.base.ForEdges(func(id datastructure.Index, e datastructure.Edge, baseWeight float64) {
		if err != nil {
			return
		}
		live := t.GetWeightById(id)
		if math.IsNaN(live) || live < baseWeight {
			err = util.WrapErrorf(nil, util.ErrInvariantViolation,
				"live travel time %v of %s is below its base travel time %v", live, e, baseWeight)
		}
	})
	return err
}

// GetBaseWeight returns the nominal travel time of e.
func (s *Store) GetBaseWeight(e datastructure.Edge) (float64, bool) {
	return s.base.GetBaseWeight(e)
}

func (s *Store) EdgeSet() []datastructure.Edge {
	return s.base.EdgeSet()
}

// Subscribe delivers every topology published after the call. A subscriber that falls behind
// misses snapshots instead of blocking the publisher. The returned func unsubscribes.
func (s *Store) Subscribe() (<-chan *datastructure.Topology, func()) {
	ch := make(chan *datastructure.Topology, subscriberBufferSize)

	s.subsMu.Lock()
	id := s.nextSubId
	s.nextSubId++
	s.subscribers[id] = ch
	s.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subscribers, id)
			s.subsMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) notify(t *datastructure.Topology) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- t:
		default:
		}
	}
}
