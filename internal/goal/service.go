package goal

import (
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the goal service.
type ServiceConfig struct {
	// Logger for service operations. The math below the service never logs.
	Logger zerolog.Logger

	// Now supplies the evaluation time; defaults to time.Now. Injected so
	// age derivation is deterministic in tests.
	Now func() time.Time
}

// Service is the boundary around the pure engine: it logs at the edges and
// stamps evaluation time, nothing more. Safe for concurrent use.
type Service struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new goal service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{logger: cfg.Logger, now: now}
}

// ComputePlan runs a full plan computation at the current evaluation time.
// The middle return is false when the profile is not ready.
func (s *Service) ComputePlan(in PlanInput) (*Plan, bool, error) {
	if in.At.IsZero() {
		in.At = s.now()
	}
	plan, ok, err := ComputePlan(in)
	if err != nil {
		s.logger.Warn().Err(err).Msg("plan computation failed")
		return nil, false, err
	}
	if !ok {
		s.logger.Debug().Msg("profile not ready, no plan computed")
		return nil, false, nil
	}
	s.logger.Debug().
		Float64("bmr", plan.Budget.BMR).
		Float64("tdee", plan.Budget.TDEE).
		Float64("daily_goal", plan.Budget.DailyCalorieGoal).
		Msg("plan computed")
	return plan, true, nil
}

// RecomputeForSelection computes a patch covering only the categories
// owned by the changed selection fields.
func (s *Service) RecomputeForSelection(in PlanInput, changed []SelectionField) (*Plan, bool, error) {
	seen := make(map[Category]bool)
	var categories []Category
	for _, field := range changed {
		for _, cat := range OwnedCategories(field) {
			if !seen[cat] {
				seen[cat] = true
				categories = append(categories, cat)
			}
		}
	}
	if in.At.IsZero() {
		in.At = s.now()
	}
	return ComputePlanCategories(in, categories)
}

// RemainingBudget evaluates the daily adjustment policy.
func (s *Service) RemainingBudget(dailyGoal float64, cfg CalorieAdjustmentConfig, rec ActivityEnergyRecord, tdee float64) (float64, error) {
	remaining, err := RemainingBudget(dailyGoal, cfg, rec, tdee)
	if err != nil {
		s.logger.Warn().Err(err).Str("mode", string(cfg.Mode)).Msg("remaining budget evaluation failed")
		return 0, err
	}
	return remaining, nil
}
