package device

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the device telemetry service.
type ServiceConfig struct {
	// Provider is the telemetry provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache summaries (default: 5 minutes).
	// Devices sync frequently during the day, so the cache stays short.
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 1 hour).
	StaleIfErrorTTL time.Duration

	// Metrics records cache and provider call metrics (optional).
	Metrics CallMetrics
}

// CallMetrics records provider call outcomes. Satisfied by
// middleware.ProviderMetrics.
type CallMetrics interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
	RecordCacheHit(provider, operation string)
	RecordCacheMiss(provider, operation string)
}

// Service provides device summaries with caching.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration
	metrics         CallMetrics

	mu          sync.RWMutex
	cache       map[string]*cachedSummary
	lastCleanup time.Time
}

type cachedSummary struct {
	summary   *DailySummary
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new device telemetry service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 1 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		metrics:         cfg.Metrics,
		cache:           make(map[string]*cachedSummary),
	}
}

// GetDailySummary returns the summary for one user and day.
// Uses cached data if available and not expired.
func (s *Service) GetDailySummary(ctx context.Context, userID string, date time.Time) (*DailySummary, error) {
	key := cacheKey(userID, date)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.recordCacheHit()
		return cached.summary, nil
	}
	s.mu.RUnlock()

	s.recordCacheMiss()
	return s.fetchSummary(ctx, userID, date, key)
}

// ProviderName returns the underlying provider name for health reporting.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

func (s *Service) fetchSummary(ctx context.Context, userID string, date time.Time, key string) (*DailySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.summary, nil
	}

	s.logger.Debug().
		Str("user_id", userID).
		Str("date", date.Format("2006-01-02")).
		Str("provider", s.provider.Name()).
		Msg("fetching device summary from provider")

	start := time.Now()
	summary, err := s.provider.GetDailySummary(ctx, userID, date)
	if s.metrics != nil {
		s.metrics.RecordRequest(s.provider.Name(), "daily-summary", time.Since(start), err)
	}
	if err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Msg("failed to fetch device summary")

		if cached, ok := s.cache[key]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale device summary due to provider error")
				return cached.summary, nil
			}
		}

		return nil, err
	}

	now := time.Now()
	s.cache[key] = &cachedSummary{
		summary:   summary,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.cleanupIfNeeded(now)

	return summary, nil
}

// cleanupIfNeeded evicts expired entries at most once per TTL window.
// Caller must hold the write lock.
func (s *Service) cleanupIfNeeded(now time.Time) {
	if now.Sub(s.lastCleanup) < s.cacheTTL {
		return
	}
	for key, cached := range s.cache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
		}
	}
	s.lastCleanup = now
}

func cacheKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

func (s *Service) recordCacheHit() {
	if s.metrics != nil {
		s.metrics.RecordCacheHit(s.provider.Name(), "daily-summary")
	}
}

func (s *Service) recordCacheMiss() {
	if s.metrics != nil {
		s.metrics.RecordCacheMiss(s.provider.Name(), "daily-summary")
	}
}
