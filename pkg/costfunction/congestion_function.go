package costfunction

import (
	"github.com/lintang-b-s/livetraffic/pkg"
)

// CongestionCostFunction adds one minute of delay for every vehiclesPerMinute queued vehicles.
type CongestionCostFunction struct {
	vehiclesPerMinute int
}

func NewCongestionCostFunction() *CongestionCostFunction {
	return &CongestionCostFunction{vehiclesPerMinute: pkg.VEHICLES_PER_DELAY_MINUTE}
}

func NewCongestionCostFunctionWithRate(vehiclesPerMinute int) *CongestionCostFunction {
	if vehiclesPerMinute <= 0 {
		vehiclesPerMinute = pkg.VEHICLES_PER_DELAY_MINUTE
	}
	return &CongestionCostFunction{vehiclesPerMinute: vehiclesPerMinute}
}

// GetDelay is floor(queueLength / vehiclesPerMinute). Negative queue lengths yield a negative
// delay, callers treat that as corrupted congestion state.
func (cf *CongestionCostFunction) GetDelay(queueLength int) float64 {
	if queueLength < 0 {
		return -1
	}
	return float64(queueLength / cf.vehiclesPerMinute)
}

func (cf *CongestionCostFunction) GetWeight(baseWeight float64, queueLength int) float64 {
	return baseWeight + cf.GetDelay(queueLength)
}
