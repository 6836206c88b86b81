package controllers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/livetraffic/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type trafficAPI struct {
	trafficService TrafficService
	log            *zap.Logger
}

func NewTrafficAPI(trafficService TrafficService, log *zap.Logger) *trafficAPI {
	return &trafficAPI{
		trafficService: trafficService,
		log:            log,
	}
}

func (api *trafficAPI) Routes(group *helper.RouteGroup) {
	group.GET("/traffic", api.traffic)
	group.GET("/intersections", api.intersections)
	group.POST("/simulate", api.simulate)
	group.POST("/update", api.update)
	group.GET("/get-all-traffic", api.legacyTraffic)
}

func (api *trafficAPI) traffic(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	snap := api.trafficService.TrafficSnapshot()
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewTrafficResponse(snap)}, nil); err != nil {
		serverErrorResponse(api.log, w, r, err)
	}
}

func (api *trafficAPI) intersections(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	states := api.trafficService.Intersections()
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewIntersectionsResponse(states)}, nil); err != nil {
		serverErrorResponse(api.log, w, r, err)
	}
}

func (api *trafficAPI) simulate(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.trafficService.Simulate(r.Context()); err != nil {
		getStatusCode(api.log, w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, envelope{"data": "simulation step completed"}, nil); err != nil {
		serverErrorResponse(api.log, w, r, err)
	}
}

func (api *trafficAPI) update(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	snap, err := api.trafficService.Update(r.Context())
	if err != nil {
		getStatusCode(api.log, w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewTrafficResponse(snap)}, nil); err != nil {
		serverErrorResponse(api.log, w, r, err)
	}
}
