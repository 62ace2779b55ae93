package preferences

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kcalplan/kcalplan/internal/goal"
)

// InMemoryRepository is an in-memory implementation of Repository for
// tests and local development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	prefs map[string]*Preferences
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{prefs: make(map[string]*Preferences)}
}

// Get retrieves a user's stored preferences.
func (r *InMemoryRepository) Get(_ context.Context, userID string) (*Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefs, ok := r.prefs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *prefs
	return &copied, nil
}

// Upsert stores a user's preferences.
func (r *InMemoryRepository) Upsert(_ context.Context, prefs *Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *prefs
	copied.UpdatedAt = time.Now()
	r.prefs[prefs.UserID] = &copied
	return nil
}

// Delete removes a user's stored preferences.
func (r *InMemoryRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.prefs, userID)
	return nil
}

// ListDeviceProjectionUsers returns IDs of users in device-projection mode.
func (r *InMemoryRepository) ListDeviceProjectionUsers(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var userIDs []string
	for id, prefs := range r.prefs {
		if prefs.Adjustment.Mode == goal.AdjustDeviceProjection {
			userIDs = append(userIDs, id)
		}
	}
	sort.Strings(userIDs)
	return userIDs, nil
}
