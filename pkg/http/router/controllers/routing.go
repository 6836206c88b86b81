package controllers

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/livetraffic/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/livetraffic/pkg/metrics"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/route", api.shortestPath)
	group.GET("/nearestJunction", api.nearestJunction)
	group.GET("/junctions", api.junctions)
	group.GET("/get-route", api.legacyShortestPath)
}

func (api *routingAPI) shortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()
	request := routeRequest{
		Start: query.Get("start"),
		End:   query.Get("end"),
	}
	if request.Start == "" || request.End == "" {
		metrics.ObserveRouteQuery("invalid", 0)
		badRequestResponse(api.log, w, r,
			util.WrapErrorf(nil, util.ErrBadParamInput, "Missing 'start' or 'end' parameter"))
		return
	}
	if err := validateRequest(request); err != nil {
		metrics.ObserveRouteQuery("invalid", 0)
		badRequestResponse(api.log, w, r, err)
		return
	}

	route, err := api.routingService.ShortestPath(request.Start, request.End)
	if err != nil {
		getStatusCode(api.log, w, r, err)
		return
	}

	headers := make(http.Header)

	if err := writeJSON(w, http.StatusOK, envelope{"data": NewRouteResponse(route)}, headers); err != nil {
		serverErrorResponse(api.log, w, r, err)
		return
	}
}

func (api *routingAPI) nearestJunction(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearestJunctionRequest
		err     error
	)

	query := r.URL.Query()

	request.Lat, err = strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		badRequestResponse(api.log, w, r,
			util.WrapErrorf(err, util.ErrBadParamInput, "lat is required and must be a valid float"))
		return
	}
	request.Lon, err = strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		badRequestResponse(api.log, w, r,
			util.WrapErrorf(err, util.ErrBadParamInput, "lon is required and must be a valid float"))
		return
	}
	if err := validateRequest(request); err != nil {
		badRequestResponse(api.log, w, r, err)
		return
	}

	nearest, err := api.routingService.NearestJunction(request.Lat, request.Lon)
	if err != nil {
		getStatusCode(api.log, w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"data": NewNearestJunctionResponse(nearest)}, nil); err != nil {
		serverErrorResponse(api.log, w, r, err)
	}
}

func (api *routingAPI) junctions(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewJunctionsResponse(api.routingService.Junctions())}, nil); err != nil {
		serverErrorResponse(api.log, w, r, err)
	}
}
