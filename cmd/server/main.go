package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/advisor/internal/backup"
	"github.com/aristath/advisor/internal/clients/amfi"
	"github.com/aristath/advisor/internal/clients/yahoo"
	"github.com/aristath/advisor/internal/config"
	"github.com/aristath/advisor/internal/database"
	"github.com/aristath/advisor/internal/modules/allocation"
	"github.com/aristath/advisor/internal/modules/analytics"
	"github.com/aristath/advisor/internal/modules/instruments"
	"github.com/aristath/advisor/internal/modules/prediction"
	"github.com/aristath/advisor/internal/modules/recommendation"
	"github.com/aristath/advisor/internal/scheduler"
	"github.com/aristath/advisor/internal/server"
	"github.com/aristath/advisor/pkg/logger"
)

func main() {
	// Load configuration first so the logger honors LOG_LEVEL
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting Advisor")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directory")
	}

	// Databases: one for history, one for the price cache
	db, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "advisor.db"),
		Profile: database.ProfileStandard,
		Name:    "advisor",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache database")
	}
	defer cacheDB.Close()

	// Models: load from disk or train synchronously before serving
	trainer := prediction.NewTrainer(cfg.TrainingSamples, cfg.TrainingSeed, log)
	holder, err := prediction.Bootstrap(trainer, cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap model bundle")
	}

	var uploader prediction.ArtifactUploader
	if cfg.Backup.Enabled {
		s3up, err := backup.NewS3Uploader(context.Background(), cfg.Backup.Bucket, cfg.Backup.Prefix, cfg.Backup.Region, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize artifact backup")
		}
		uploader = s3up
	}
	modelSvc := prediction.NewService(trainer, holder, cfg.DataDir, uploader, log)

	// Price feeds and cache
	quotes := yahoo.NewClient(cfg.PriceFeedBaseURL, cfg.PriceTimeout, log)
	navs := amfi.NewClient(cfg.NAVFeedBaseURL, cfg.PriceTimeout, log)

	priceCache, err := instruments.NewPriceCache(cacheDB.Conn(), cfg.PriceCacheTTL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize price cache")
	}
	selector := instruments.NewSelector(quotes, navs, priceCache, log)

	// Recommendation pipeline
	repo, err := recommendation.NewRepository(db.Conn())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize recommendation repository")
	}
	normalizer := allocation.NewNormalizer(allocation.DefaultRedistributionPolicy, log)
	recSvc := recommendation.NewService(holder, normalizer, selector, repo, cfg.InflationRate, log)

	analyticsSvc := analytics.NewService(quotes, log)

	// Background jobs
	sched := scheduler.New(log)
	sweepJob := instruments.NewSweepJob(priceCache, log)
	if err := sched.AddJob(cfg.RetrainSchedule, prediction.NewRetrainJob(modelSvc, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register retrain job")
	}
	if err := sched.AddJob("@hourly", sweepJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache sweep job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:            cfg.Port,
		Log:             log,
		DB:              db,
		CacheDB:         cacheDB,
		DevMode:         cfg.DevMode,
		Models:          holder,
		Scheduler:       sched,
		SweepJob:        sweepJob,
		Recommendations: recommendation.NewHandler(recSvc, repo, log),
		ModelAdmin:      prediction.NewHandler(modelSvc, log),
		Analytics:       analytics.NewHandler(analyticsSvc, log),
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
