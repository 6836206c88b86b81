package controllers

import (
	"github.com/lintang-b-s/livetraffic/pkg"
	"github.com/lintang-b-s/livetraffic/pkg/congestion"
	"github.com/lintang-b-s/livetraffic/pkg/engine"
	"github.com/lintang-b-s/livetraffic/pkg/http/usecases"
	"github.com/lintang-b-s/livetraffic/pkg/spatialindex"
)

type routeRequest struct {
	Start string `json:"start" validate:"required,max=256"`
	End   string `json:"end" validate:"required,max=256"`
}

type routeResponse struct {
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Time       float64  `json:"time"`
	Path       []string `json:"path"`
	Version    uint64   `json:"version"`
	DistanceKM *float64 `json:"distance_km,omitempty"`
	Polyline   string   `json:"polyline,omitempty"`
}

func NewRouteResponse(res usecases.RouteResult) routeResponse {
	resp := routeResponse{
		Start:   res.Start,
		End:     res.End,
		Time:    res.TravelTime,
		Path:    res.Path,
		Version: res.Version,
	}
	if res.HasGeometry {
		dist := res.DistanceKM
		resp.DistanceKM = &dist
		resp.Polyline = res.Polyline
	}
	return resp
}

type roadTrafficResponse struct {
	Start           string              `json:"start"`
	End             string              `json:"end"`
	LiveTime        float64             `json:"live_time"`
	BaseTime        float64             `json:"base_time"`
	CongestionLevel pkg.CongestionLevel `json:"congestion_level"`
}

type trafficResponse struct {
	Version uint64                `json:"version"`
	Roads   []roadTrafficResponse `json:"roads"`
}

func NewTrafficResponse(snap engine.TrafficSnapshot) trafficResponse {
	roads := make([]roadTrafficResponse, 0, len(snap.Roads))
	for _, road := range snap.Roads {
		roads = append(roads, roadTrafficResponse{
			Start:           road.Start,
			End:             road.End,
			LiveTime:        road.LiveTime,
			BaseTime:        road.BaseTime,
			CongestionLevel: road.Level,
		})
	}
	return trafficResponse{Version: snap.Version, Roads: roads}
}

type laneResponse struct {
	Lane   congestion.LaneID `json:"lane"`
	Queued int               `json:"queued"`
}

type intersectionResponse struct {
	Name  string         `json:"name"`
	Lanes []laneResponse `json:"lanes"`
}

func NewIntersectionsResponse(states []engine.IntersectionState) []intersectionResponse {
	resp := make([]intersectionResponse, 0, len(states))
	for _, st := range states {
		lanes := make([]laneResponse, 0, len(st.Lanes))
		for _, l := range st.Lanes {
			lanes = append(lanes, laneResponse{Lane: l.Lane, Queued: l.Queued})
		}
		resp = append(resp, intersectionResponse{Name: st.Name, Lanes: lanes})
	}
	return resp
}

type nearestJunctionRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type junctionResponse struct {
	Name       string   `json:"name"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	DistanceKM *float64 `json:"distance_km,omitempty"`
}

func NewJunctionResponse(j spatialindex.Junction) junctionResponse {
	return junctionResponse{Name: j.Name, Lat: j.Coordinate.Lat, Lon: j.Coordinate.Lon}
}

func NewNearestJunctionResponse(j spatialindex.JunctionDistance) junctionResponse {
	resp := NewJunctionResponse(j.Junction)
	dist := j.DistanceKM
	resp.DistanceKM = &dist
	return resp
}

func NewJunctionsResponse(junctions []spatialindex.Junction) []junctionResponse {
	resp := make([]junctionResponse, 0, len(junctions))
	for _, j := range junctions {
		resp = append(resp, NewJunctionResponse(j))
	}
	return resp
}
