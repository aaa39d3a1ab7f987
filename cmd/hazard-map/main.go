package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-fire-hazard-map/internal/api"
	"github.com/mr1hm/go-fire-hazard-map/internal/config"
	"github.com/mr1hm/go-fire-hazard-map/internal/geo"
	"github.com/mr1hm/go-fire-hazard-map/internal/ingestion"
	"github.com/mr1hm/go-fire-hazard-map/internal/logging"
	"github.com/mr1hm/go-fire-hazard-map/internal/observability"
	"github.com/mr1hm/go-fire-hazard-map/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	metrics := observability.NewMetrics()

	fireClient := ingestion.NewFireFeedClient(cfg.Sources.FireFeedURL, cfg.Sampler.RequestTimeout, metrics)
	weatherClient := ingestion.NewWeatherClient(cfg.Sources.WeatherURL, &http.Client{
		Timeout: cfg.Sampler.RequestTimeout,
	})
	countyClient := ingestion.NewCountyClient(cfg.Sources.CountyURL, cfg.Sources.CountyPrefix, cfg.Sampler.RequestTimeout, metrics)

	sampler := ingestion.NewWeatherSampler(
		weatherClient,
		cfg.Sampler.Workers,
		cfg.Sampler.RequestTimeout,
		cfg.Sampler.RequestInterval,
		metrics,
	)

	aggregator := ingestion.NewAggregator(
		fireClient,
		sampler,
		geo.GridProvider{BBox: cfg.Region.BBox, Spacing: cfg.Region.GridSpacing},
		cfg.Region.BBox,
		cfg.Sources.FireWindowDays,
		cfg.Sampler.BuildDeadline,
		metrics,
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(5)) // 5 req/s global limit

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := api.NewHandler(aggregator, db, countyClient)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
