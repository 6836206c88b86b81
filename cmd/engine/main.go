package main

import (
	"context"
	"flag"
	"time"

	"github.com/lintang-b-s/livetraffic/pkg/engine"
	"github.com/lintang-b-s/livetraffic/pkg/http"
	"github.com/lintang-b-s/livetraffic/pkg/http/usecases"
	"github.com/lintang-b-s/livetraffic/pkg/logger"
	"github.com/lintang-b-s/livetraffic/pkg/scheduler"
	"github.com/lintang-b-s/livetraffic/pkg/simulator"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "./data/config.yaml", "path to the yaml config with the city topology")
	seed       = flag.Uint64("seed", 0, "traffic simulation seed, overrides RANDOM_SEED when non zero")
)

func main() {
	flag.Parse()

	util.SetDefaults()
	if err := util.ReadConfigFile(*configPath); err != nil {
		panic(err)
	}

	logger, err := logger.NewWithLevel(viper.GetString("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck // ignore

	adj, junctions, err := engine.LoadTopology(viper.GetViper())
	if err != nil {
		logger.Fatal("failed to load topology", zap.Error(err))
	}

	randomSeed := viper.GetUint64("RANDOM_SEED")
	if *seed != 0 {
		randomSeed = *seed
	}
	if randomSeed == 0 {
		randomSeed = uint64(time.Now().UnixNano())
	}
	logger.Info("traffic simulation seed", zap.Uint64("seed", randomSeed))

	trafficEngine, err := engine.NewEngine(adj, junctions, engine.ConfigFromViper(),
		simulator.NewRandSource(randomSeed), logger)
	if err != nil {
		logger.Fatal("failed to build engine", zap.Error(err))
	}

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	// corrupted graph state is fatal whether the cycle was scheduled or triggered over HTTP
	onFatal := func(cycle string, err error) {
		logger.Fatal("cycle found corrupted state", zap.String("cycle", cycle), zap.Error(err))
	}

	sched, err := scheduler.New(logger, trafficEngine.Tasks(), scheduler.WithFatalHandler(onFatal))
	if err != nil {
		logger.Fatal("failed to build scheduler", zap.Error(err))
	}
	if err := sched.Start(ctx); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}

	api := http.NewServer(logger)
	routingService := usecases.NewRoutingService(logger, trafficEngine, trafficEngine,
		viper.GetFloat64("JUNCTION_SEARCH_RADIUS"))
	trafficService := usecases.NewTrafficService(logger, trafficEngine, usecases.WithFatalHandler(onFatal))
	if _, err := api.Use(ctx, logger, routingService, trafficService); err != nil {
		logger.Fatal("failed to start API", zap.Error(err))
	}

	signal := http.GracefulShutdown()
	logger.Info("shutting down", zap.String("signal", signal.String()))

	if err := sched.Stop(); err != nil {
		logger.Error("scheduler stopped with error", zap.Error(err))
	}
	cleanup()
	if err := api.Wait(); err != nil {
		logger.Error("API stopped with error", zap.Error(err))
	}

	logger.Info("Live Traffic Routing Engine Server Stopped")
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
