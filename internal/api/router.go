// Package api provides the HTTP API for kcalplan.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/kcalplan/kcalplan/internal/api/handler"
	"github.com/kcalplan/kcalplan/internal/api/middleware"
	"github.com/kcalplan/kcalplan/internal/device"
	"github.com/kcalplan/kcalplan/internal/goal"
	"github.com/kcalplan/kcalplan/internal/preferences"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	ServiceName   string
	Metrics       *middleware.Metrics
	GoalService   *goal.Service
	PrefsService  *preferences.Service
	DeviceService *device.Service
	ReadyChecks   []handler.ReadyCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "kcalplan-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.ContentTypeJSON)      // JSON content type
	r.Use(middleware.RequireJSON)          // Reject non-JSON bodies

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadyChecks...)
	planHandler := handler.NewPlanHandler(cfg.GoalService, cfg.PrefsService)
	budgetHandler := handler.NewBudgetHandler(cfg.GoalService, cfg.PrefsService, cfg.DeviceService)
	macroHandler := handler.NewMacroHandler()
	unitsHandler := handler.NewUnitsHandler()
	preferencesHandler := handler.NewPreferencesHandler(cfg.PrefsService)
	metadataHandler := handler.NewMetadataHandler()

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Metadata endpoints - standard rate limiting
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		// Plan computation - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/plans:compute", planHandler.ComputePlan)
		r.With(expensiveRateLimit).Post("/plans:recompute", planHandler.RecomputePlan)

		// Daily budget reconciliation - may hit the device provider
		r.With(expensiveRateLimit).Post("/budget:remaining", budgetHandler.RemainingBudget)

		// Macro split rebalancing - pure arithmetic
		r.With(standardRateLimit).Post("/macros:rebalance", macroHandler.Rebalance)

		// Unit conversion - pure arithmetic
		r.With(standardRateLimit).Get("/units:convert", unitsHandler.Convert)

		// Per-user preferences
		r.Route("/users/{userId}/preferences", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", preferencesHandler.GetPreferences)
			r.Put("/", preferencesHandler.UpsertPreferences)
			r.Delete("/", preferencesHandler.DeletePreferences)
		})
	})

	return r
}
