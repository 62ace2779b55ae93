// Package main provides the entrypoint for the kcalplan API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kcalplan/kcalplan/internal/api"
	"github.com/kcalplan/kcalplan/internal/api/handler"
	"github.com/kcalplan/kcalplan/internal/api/middleware"
	"github.com/kcalplan/kcalplan/internal/database"
	"github.com/kcalplan/kcalplan/internal/device"
	"github.com/kcalplan/kcalplan/internal/device/garminbridge"
	"github.com/kcalplan/kcalplan/internal/goal"
	"github.com/kcalplan/kcalplan/internal/preferences"
	"github.com/kcalplan/kcalplan/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "kcalplan-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting kcalplan API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	sampleRatio, _ := strconv.ParseFloat(os.Getenv("OTEL_TRACE_SAMPLE_RATIO"), 64)

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
		SampleRatio:    sampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize preferences repository and service
	prefsRepo := preferences.NewPostgresRepository(pool)
	prefsService := preferences.NewService(preferences.ServiceConfig{
		Repository: prefsRepo,
		Logger:     log,
		CacheTTL:   1 * time.Minute,
	})
	log.Info().Msg("preferences service initialized")

	// Initialize goal computation service
	goalService := goal.NewService(goal.ServiceConfig{Logger: log})
	log.Info().Msg("goal service initialized")

	// Initialize device telemetry provider (may run without a key in
	// development; the bridge rejects unauthenticated calls)
	bridgeAPIKey := os.Getenv("GARMIN_BRIDGE_API_KEY")
	if bridgeAPIKey == "" {
		log.Warn().Msg("GARMIN_BRIDGE_API_KEY not set - device telemetry calls will fail")
	}

	bridgeClient := garminbridge.NewClient(garminbridge.ClientConfig{
		APIKey:  bridgeAPIKey,
		BaseURL: os.Getenv("GARMIN_BRIDGE_URL"),
		Logger:  log,
	})
	providerMetrics, err := middleware.NewProviderMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}
	deviceService := device.NewService(device.ServiceConfig{
		Provider: bridgeClient,
		Logger:   log,
		Metrics:  providerMetrics,
	})
	log.Info().
		Str("provider", deviceService.ProviderName()).
		Msg("device service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   serviceName,
		Metrics:       metrics,
		GoalService:   goalService,
		PrefsService:  prefsService,
		DeviceService: deviceService,
		ReadyChecks: []handler.ReadyCheck{
			{Name: "database", Check: pool.Ping},
		},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
