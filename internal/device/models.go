// Package device provides access to wearable activity data used by the
// calorie adjustment policy. A Provider fetches per-day summaries from an
// external bridge service; the Service caches them.
package device

import (
	"context"
	"errors"
	"time"

	"github.com/kcalplan/kcalplan/internal/algorithm"
	"github.com/kcalplan/kcalplan/internal/goal"
)

// Predefined errors for device telemetry.
var (
	// ErrProviderUnavailable is returned when the telemetry provider cannot be reached.
	ErrProviderUnavailable = errors.New("device provider unavailable")

	// ErrNoData is returned when the provider has no summary for the requested day.
	ErrNoData = errors.New("no device data for requested day")
)

// DailySummary holds a wearable's intake and expenditure totals for one day.
type DailySummary struct {
	// UserID is the account the summary belongs to.
	UserID string `json:"userId"`

	// Date is the calendar day the summary covers.
	Date time.Time `json:"date"`

	// EatenKcal is the total logged food energy so far in the day.
	EatenKcal float64 `json:"eatenKcal"`

	// BurnedKcal is the device's total energy expenditure so far in the day.
	BurnedKcal float64 `json:"burnedKcal"`

	// PartialBurnKcal is the expenditure accumulated up to the sync time,
	// used to project a full-day burn.
	PartialBurnKcal float64 `json:"partialBurnKcal"`

	// ElapsedDayFraction is how much of the day had passed at sync time,
	// in (0, 1]. Zero means the device has not synced today.
	ElapsedDayFraction float64 `json:"elapsedDayFraction"`

	// ExerciseMinutes is the active minutes recorded so far.
	ExerciseMinutes int `json:"exerciseMinutes"`

	// SyncedAt is when the device last uploaded data.
	SyncedAt time.Time `json:"syncedAt"`
}

// ActivityRecord converts the summary into the engine's adjustment input.
func (s *DailySummary) ActivityRecord() goal.ActivityEnergyRecord {
	return goal.ActivityEnergyRecord{
		EatenKcal:          s.EatenKcal,
		BurnedKcal:         s.BurnedKcal,
		PartialBurnKcal:    s.PartialBurnKcal,
		ElapsedDayFraction: s.ElapsedDayFraction,
	}
}

// Provider defines the interface for device telemetry providers.
type Provider interface {
	// GetDailySummary fetches the summary for one user and calendar day.
	GetDailySummary(ctx context.Context, userID string, date time.Time) (*DailySummary, error)

	// Name returns the provider name for logging.
	Name() string
}

// BodyProfile holds the body stats a wearable account keeps, already
// normalized to metric.
type BodyProfile struct {
	UserID        string    `json:"userId"`
	Sex           string    `json:"sex"`
	BirthDate     time.Time `json:"birthDate"`
	WeightKg      float64   `json:"weightKg"`
	HeightCm      float64   `json:"heightCm"`
	ActivityLevel string    `json:"activityLevel"`
}

// Profile converts the body stats into the engine's measurement input.
func (p *BodyProfile) Profile() goal.Profile {
	return goal.Profile{
		Sex:       algorithm.Sex(p.Sex),
		BirthDate: p.BirthDate,
		WeightKg:  p.WeightKg,
		HeightCm:  p.HeightCm,
		Activity:  goal.ActivityLevel(p.ActivityLevel),
	}
}

// ProfileSource supplies body stats for users whose plans are refreshed in
// the background.
type ProfileSource interface {
	// GetBodyProfile fetches the current body stats for one user.
	GetBodyProfile(ctx context.Context, userID string) (*BodyProfile, error)
}
