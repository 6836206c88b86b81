package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRouteQueryCounter(t *testing.T) {
	before := testutil.ToFloat64(routeQueryTotal.WithLabelValues("found"))
	ObserveRouteQuery("found", 0.001)
	ObserveRouteQuery("found", 0.002)
	assert.Equal(t, before+2, testutil.ToFloat64(routeQueryTotal.WithLabelValues("found")))
}

func TestGauges(t *testing.T) {
	SetLiveTopologyVersion(42)
	assert.Equal(t, 42.0, testutil.ToFloat64(liveTopologyVersion))

	SetVehiclesQueued(17)
	assert.Equal(t, 17.0, testutil.ToFloat64(vehiclesQueued))

	arrived := testutil.ToFloat64(vehiclesArrivedTotal)
	drained := testutil.ToFloat64(vehiclesDrainedTotal)
	AddVehicles(30, 12)
	assert.Equal(t, arrived+30, testutil.ToFloat64(vehiclesArrivedTotal))
	assert.Equal(t, drained+12, testutil.ToFloat64(vehiclesDrainedTotal))
}
