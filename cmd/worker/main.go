// Package main provides the entrypoint for the kcalplan background worker.
// It refreshes goal snapshots for device-projection users, driven by
// Pub/Sub job messages or a fallback interval timer.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kcalplan/kcalplan/internal/database"
	"github.com/kcalplan/kcalplan/internal/device"
	"github.com/kcalplan/kcalplan/internal/device/garminbridge"
	"github.com/kcalplan/kcalplan/internal/goal"
	"github.com/kcalplan/kcalplan/internal/preferences"
	"github.com/kcalplan/kcalplan/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "kcalplan-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting kcalplan worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	prefsService := preferences.NewService(preferences.ServiceConfig{
		Repository: preferences.NewPostgresRepository(pool),
		Logger:     log,
	})

	goalService := goal.NewService(goal.ServiceConfig{Logger: log})

	bridgeAPIKey := os.Getenv("GARMIN_BRIDGE_API_KEY")
	if bridgeAPIKey == "" {
		log.Warn().Msg("GARMIN_BRIDGE_API_KEY not set - device telemetry calls will fail")
	}
	bridgeClient := garminbridge.NewClient(garminbridge.ClientConfig{
		APIKey:  bridgeAPIKey,
		BaseURL: os.Getenv("GARMIN_BRIDGE_URL"),
		Logger:  log,
	})
	deviceService := device.NewService(device.ServiceConfig{
		Provider: bridgeClient,
		Logger:   log,
	})

	refreshConfig := worker.RefreshConfigFromEnv()
	pubsubConfig := worker.PubSubConfigFromEnv()

	// Snapshot publisher is optional; without it refreshed plans are
	// computed for their side effects (cache warming, failure logging) only.
	var publisher worker.Publisher
	if refreshConfig.PublishSnapshots {
		snapshotPublisher, err := worker.NewSnapshotPublisher(ctx, worker.SnapshotPublisherConfig{
			ProjectID: pubsubConfig.ProjectID,
			TopicName: pubsubConfig.TopicName,
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create snapshot publisher")
		}
		defer snapshotPublisher.Close()
		publisher = snapshotPublisher
	}

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    refreshConfig,
		Logger:    log,
		Goals:     goalService,
		Prefs:     prefsService,
		Devices:   deviceService,
		Profiles:  bridgeClient,
		Publisher: publisher,
	})

	// Health check server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Prefer Pub/Sub-driven jobs; fall back to a fixed interval when
	// Pub/Sub is disabled (local development, small deployments).
	if os.Getenv("PUBSUB_ENABLED") != "false" {
		pubsubHandler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        pubsubConfig.ProjectID,
			SubscriptionName: pubsubConfig.SubscriptionName,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer pubsubHandler.Close()

		go func() {
			if err := pubsubHandler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		interval := 1 * time.Hour
		if v, err := time.ParseDuration(os.Getenv("REFRESH_INTERVAL")); err == nil && v > 0 {
			interval = v
		}
		log.Info().Dur("interval", interval).Msg("pubsub disabled, using interval refresh")

		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					refreshJob.Run(ctx)
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
