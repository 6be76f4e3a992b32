package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aurorastack/insight-engine/internal/api"
	"github.com/aurorastack/insight-engine/internal/cache"
	"github.com/aurorastack/insight-engine/internal/chart"
	"github.com/aurorastack/insight-engine/internal/config"
	"github.com/aurorastack/insight-engine/internal/dataset"
	"github.com/aurorastack/insight-engine/internal/engine"
	"github.com/aurorastack/insight-engine/internal/metrics"
	"github.com/aurorastack/insight-engine/internal/narrative"
	"github.com/aurorastack/insight-engine/internal/orchestrator"
	"github.com/aurorastack/insight-engine/internal/services"
	"github.com/aurorastack/insight-engine/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting insight-engine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	var cacheProvider cache.Provider = cache.NewMemoryProvider()
	var valkeyCloser cache.Provider
	if cfg.Cache.Enabled && cfg.Cache.Addr != "" {
		provider, err := cache.NewValkeyProvider(cache.ValkeyConfig{
			Addr:         cfg.Cache.Addr,
			Password:     cfg.Cache.Password,
			DB:           cfg.Cache.DB,
			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,
		})
		if err != nil {
			logger.Warn("valkey cache unavailable", slog.Any("error", err))
		} else {
			cacheProvider = provider
			valkeyCloser = provider
		}
	}
	if valkeyCloser != nil {
		defer valkeyCloser.Close()
	}

	templates, err := narrative.LoadTemplatePack(cfg.Narrative.TemplatesPath)
	if err != nil {
		logger.Error("failed to load template pack", slog.Any("error", err))
		os.Exit(1)
	}

	var generator narrative.TextGenerator
	if cfg.Narrative.Endpoint != "" {
		live := narrative.NewLiveGenerator(cfg.Narrative.Endpoint, cfg.Narrative.APIKey, cfg.Narrative.Timeout)
		generator = narrative.NewCachedGenerator(live, cacheProvider, cfg.Narrative.CacheTTL, logger)
	}

	var engineOpts []engine.Option
	if cfg.Engine.TrendSeed != 0 {
		engineOpts = append(engineOpts, engine.WithTrendSeed(cfg.Engine.TrendSeed))
	}

	registry := dataset.NewRegistry()
	orch := orchestrator.New(
		logger,
		registry,
		engine.NewEngine(logger, engineOpts...),
		chart.NewBuilder(),
		narrative.NewSelector(logger, templates, generator),
	)

	insightService := services.NewInsightService(logger, orch, registry)

	server, err := api.NewServer(cfg.Server, api.NewRouter(logger, insightService))
	if err != nil {
		logger.Error("failed to create HTTP server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("HTTP server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("insight-engine stopped")
}
