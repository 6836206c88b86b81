package routing

import (
	da "github.com/lintang-b-s/livetraffic/pkg/datastructure"
)

type SnapshotSource interface {
	GetLiveSnapshot() *da.Topology
}
