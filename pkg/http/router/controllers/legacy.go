package controllers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/livetraffic/pkg/metrics"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"go.uber.org/zap"
)

// The /get-route and /get-all-traffic endpoints keep serving the map UI, which expects
// unwrapped bodies and {"error": "<message>"} on failure.

func legacyErrorResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	message := errorMessage(err)
	if status == http.StatusInternalServerError {
		log.Error("internal server error", zap.Error(err),
			zap.String("method", r.Method), zap.String("path", r.URL.Path))
		message = util.MessageInternalServerError
	}
	if err := writeJSON(w, status, envelope{"error": message}, nil); err != nil {
		log.Error("failed to write error response", zap.Error(err), zap.String("path", r.URL.Path))
	}
}

func (api *routingAPI) legacyShortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()
	request := routeRequest{
		Start: query.Get("start"),
		End:   query.Get("end"),
	}
	if request.Start == "" || request.End == "" {
		metrics.ObserveRouteQuery("invalid", 0)
		legacyErrorResponse(api.log, w, r,
			util.WrapErrorf(nil, util.ErrBadParamInput, "Missing 'start' or 'end' parameter"))
		return
	}
	if err := validateRequest(request); err != nil {
		metrics.ObserveRouteQuery("invalid", 0)
		legacyErrorResponse(api.log, w, r, err)
		return
	}

	route, err := api.routingService.ShortestPath(request.Start, request.End)
	if err != nil {
		legacyErrorResponse(api.log, w, r, err)
		return
	}

	resp := envelope{
		"start":        route.Start,
		"end":          route.End,
		"time_minutes": route.TravelTime,
		"path":         route.Path,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		legacyErrorResponse(api.log, w, r, err)
	}
}

func (api *trafficAPI) legacyTraffic(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	resp := NewTrafficResponse(api.trafficService.TrafficSnapshot())
	if err := writeJSON(w, http.StatusOK, envelope{"version": resp.Version, "roads": resp.Roads}, nil); err != nil {
		legacyErrorResponse(api.log, w, r, err)
	}
}
