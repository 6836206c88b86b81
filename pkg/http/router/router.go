package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/livetraffic/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/livetraffic/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/livetraffic/pkg/http/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type RateLimit struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type API struct {
	log *zap.Logger
	hub *controllers.Hub
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

// Handler builds the full middleware chain and routes. Everything except the websocket feed
// is bounded by timeout.
func (api *API) Handler(
	timeoutHandler func(http.Handler) http.Handler,
	rateLimit RateLimit,
	routingService controllers.RoutingService,
	trafficService controllers.TrafficService,
) http.Handler {
	api.hub = controllers.NewHub(trafficService, api.log)

	router := httprouter.New()
	router.NotFound = http.HandlerFunc(notFoundHandler)
	router.MethodNotAllowed = http.HandlerFunc(methodNotAllowedHandler)

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	router.Handler(http.MethodGet, "/debug/pprof/*item", http.DefaultServeMux)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	group := router_helper.NewRouteGroup(router, "/api")
	controllers.New(routingService, api.log).Routes(group)
	controllers.NewTrafficAPI(trafficService, api.log).Routes(group)

	var mwChain []alice.Constructor
	mwChain = append(mwChain, corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
		RealIP, Heartbeat("healthz"), Logger(api.log), Labels)
	if rateLimit.Enabled {
		mwChain = append(mwChain, Limit(rateLimit.RPS, rateLimit.Burst))
	}
	apiChain := alice.New(mwChain...).Then(timeoutHandler(router))

	wsRouter := httprouter.New()
	wsRouter.GET("/ws/traffic", api.trafficFeed)
	wsChain := alice.New(corsHandler.Handler, api.recoverPanic, RealIP, Logger(api.log)).Then(wsRouter)

	mux := http.NewServeMux()
	mux.Handle("/ws/", wsChain)
	mux.Handle("/", apiChain)
	return mux
}

func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	log *zap.Logger,

	rateLimit RateLimit,
	routingService controllers.RoutingService,
	trafficService controllers.TrafficService,
) error {
	log.Info("Run httprouter API")

	handler := api.Handler(func(h http.Handler) http.Handler {
		return http.TimeoutHandler(h, config.Timeout, "request timed out")
	}, rateLimit, routingService, trafficService)

	hubDone := api.hub.Start(ctx)

	srv := http_server.New(ctx, handler, config)
	log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		log.Info("HTTP server stopped", zap.Error(err))
		return err

	case <-ctx.Done():
		log.Info("Context canceled, shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		<-hubDone
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}
