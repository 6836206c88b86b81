package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	routeQueryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livetraffic_route_query_total",
		Help: "Total route queries by result",
	}, []string{"result"}) // "found", "not_found", "invalid"

	routeQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "livetraffic_route_query_duration_seconds",
		Help:    "Route query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14), // 10us to ~80ms
	})

	feedbackCycleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livetraffic_feedback_cycle_total",
		Help: "Total feedback cycles by result",
	}, []string{"result"}) // "published", "failed"

	liveTopologyVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livetraffic_live_topology_version",
		Help: "Version of the most recently published live topology",
	})

	vehiclesArrivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "livetraffic_vehicles_arrived_total",
		Help: "Vehicles enqueued by the traffic simulation",
	})

	vehiclesDrainedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "livetraffic_vehicles_drained_total",
		Help: "Vehicles released by signal cycles",
	})

	vehiclesQueued = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livetraffic_vehicles_queued",
		Help: "Vehicles currently waiting in all lanes",
	})
)

func ObserveRouteQuery(result string, seconds float64) {
	routeQueryTotal.WithLabelValues(result).Inc()
	routeQueryDuration.Observe(seconds)
}

func IncFeedbackCycle(result string) {
	feedbackCycleTotal.WithLabelValues(result).Inc()
}

func SetLiveTopologyVersion(version uint64) {
	liveTopologyVersion.Set(float64(version))
}

func AddVehicles(arrived, drained int) {
	vehiclesArrivedTotal.Add(float64(arrived))
	vehiclesDrainedTotal.Add(float64(drained))
}

func SetVehiclesQueued(n int) {
	vehiclesQueued.Set(float64(n))
}
