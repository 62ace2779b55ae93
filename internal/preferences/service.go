package preferences

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the preferences service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// CacheTTL is how long resolved preferences are cached (default: 1 minute).
	CacheTTL time.Duration
}

// Service provides preference resolution with a small read cache. Unknown
// users resolve to defaults rather than an error; a plan can always be
// computed.
type Service struct {
	repo     Repository
	logger   zerolog.Logger
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]cachedPrefs
}

type cachedPrefs struct {
	prefs     *Preferences
	expiresAt time.Time
}

// NewService creates a new preferences service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Minute
	}
	return &Service{
		repo:     cfg.Repository,
		logger:   cfg.Logger,
		cacheTTL: cacheTTL,
		cache:    make(map[string]cachedPrefs),
	}
}

// Resolve returns the user's preferences, falling back to defaults when
// none are stored. Stored values pass through Clamp so recoverable
// out-of-range configuration never reaches the engine.
func (s *Service) Resolve(ctx context.Context, userID string) (*Preferences, error) {
	s.mu.RLock()
	if entry, ok := s.cache[userID]; ok && time.Now().Before(entry.expiresAt) {
		s.mu.RUnlock()
		copied := *entry.prefs
		return &copied, nil
	}
	s.mu.RUnlock()

	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		if err == ErrNotFound {
			prefs = Default(userID)
		} else {
			return nil, err
		}
	}

	if adjusted := prefs.Clamp(); len(adjusted) > 0 {
		s.logger.Warn().
			Str("user_id", userID).
			Strs("fields", adjusted).
			Msg("clamped out-of-range preference values")
	}

	s.mu.Lock()
	s.cache[userID] = cachedPrefs{prefs: prefs, expiresAt: time.Now().Add(s.cacheTTL)}
	s.mu.Unlock()

	copied := *prefs
	return &copied, nil
}

// Save validates and stores preferences, then invalidates the cache entry.
func (s *Service) Save(ctx context.Context, prefs *Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.cache, prefs.UserID)
	s.mu.Unlock()

	s.logger.Info().
		Str("user_id", prefs.UserID).
		Str("mode", string(prefs.Adjustment.Mode)).
		Msg("preferences saved")
	return nil
}

// Delete removes a user's preferences and cache entry.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()
	return nil
}

// ListDeviceProjectionUsers returns IDs of users in device-projection mode.
func (s *Service) ListDeviceProjectionUsers(ctx context.Context) ([]string, error) {
	return s.repo.ListDeviceProjectionUsers(ctx)
}
