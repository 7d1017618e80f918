package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/KeyzarRasya/lativa/internal/api"
	"github.com/KeyzarRasya/lativa/internal/api/handlers/http/public"
	"github.com/KeyzarRasya/lativa/internal/config"
	"github.com/KeyzarRasya/lativa/internal/geocode"
	"github.com/KeyzarRasya/lativa/internal/redis"
	"github.com/KeyzarRasya/lativa/internal/service"
	"github.com/KeyzarRasya/lativa/internal/storage/postgres"
	"github.com/KeyzarRasya/lativa/internal/vision"
	"github.com/KeyzarRasya/lativa/internal/workers"
	"github.com/KeyzarRasya/lativa/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
	Refresher  *workers.SnapshotRefresher
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing Postgres")
	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		storage.Pool.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	feed := redis.NewChangeFeed(redisClient, cfg.Feed.Channel)
	cache := redis.NewSnapshotCache(redisClient)
	geocoder := geocode.NewClient(cfg.Geocode, logger)

	incidentSvc := service.NewIncidentService(
		storage.Incidents, feed, cache, logger,
		cfg.Feed.SnapshotTTL, cfg.Feed.SampleFallback,
	)
	lifecycleSvc := service.NewLifecycleService(storage.Incidents, feed, service.AllowAny, logger)
	reportSvc := service.NewReportService(incidentSvc, service.NoDeviceGeolocator{}, geocoder, service.DefaultZonePolicy, logger)
	statsSvc := service.NewStatsService(incidentSvc)
	authSvc := service.NewAuthService(storage.Users, cfg.Auth.SessionTTL, logger)
	subscriptions := service.NewSubscriptions(storage.Incidents, feed, logger)

	svc := service.NewService(incidentSvc, lifecycleSvc, reportSvc, statsSvc, authSvc, subscriptions)

	refresher := workers.NewSnapshotRefresher(
		storage.Incidents, cache,
		cfg.Feed.RefreshInterval, cfg.Feed.SnapshotTTL, logger,
	)

	var videoChecker public.VideoChecker
	if cfg.Vision.CheckVideoURL != "" {
		videoChecker = vision.NewClient(cfg.Vision)
	}

	httpServer := api.NewServer(cfg, logger, svc, videoChecker)
	logger.Info("Initialized server")

	return &Components{
		logger:     logger,
		HttpServer: httpServer,
		Postgres:   storage,
		Redis:      redisClient,
		Refresher:  refresher,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Shutting down components")

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
