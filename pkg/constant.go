package pkg

const (
	INF_WEIGHT float64 = 1e15

	// every VEHICLES_PER_DELAY_MINUTE queued vehicles add one minute to the lane's edge.
	VEHICLES_PER_DELAY_MINUTE = 5

	// vehicles released by one green phase
	DEFAULT_SIGNAL_BATCH_SIZE = 10

	DEFAULT_BURST_COUNT = 3
	DEFAULT_MIN_CARS    = 5
	DEFAULT_MAX_CARS    = 20
	MAX_CARS_PER_BURST  = 1_000_000

	DEFAULT_ROUTE_CACHE_SIZE = 1 << 14
)

// congestion levels for the traffic snapshot, live/base travel time ratio thresholds.
const (
	FREE_FLOW_RATIO_THRESHOLD = 1.2
	MODERATE_RATIO_THRESHOLD  = 1.8
)

type CongestionLevel string

const (
	CONGESTION_FREE     CongestionLevel = "free"
	CONGESTION_MODERATE CongestionLevel = "moderate"
	CONGESTION_HEAVY    CongestionLevel = "heavy"
	CONGESTION_UNKNOWN  CongestionLevel = "unknown"
)

func GetCongestionLevel(liveTime, baseTime float64) CongestionLevel {
	if baseTime <= 0 {
		return CONGESTION_UNKNOWN
	}
	ratio := liveTime / baseTime
	switch {
	case ratio < FREE_FLOW_RATIO_THRESHOLD:
		return CONGESTION_FREE
	case ratio < MODERATE_RATIO_THRESHOLD:
		return CONGESTION_MODERATE
	default:
		return CONGESTION_HEAVY
	}
}
