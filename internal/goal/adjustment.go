package goal

import "fmt"

// RemainingBudget computes the calories left to eat today under the
// configured adjustment mode. tdee is needed only by device-projection
// mode; other modes ignore it. The function is pure and carries no state
// between evaluations.
//
// EarnBackPct is clamped into [0,100] here so the formula is total;
// boundary validation is still expected to have reported out-of-range
// configuration before it gets this far.
func RemainingBudget(dailyGoal float64, cfg CalorieAdjustmentConfig, rec ActivityEnergyRecord, tdee float64) (float64, error) {
	switch cfg.Mode {
	case AdjustDynamic:
		return dailyGoal + rec.BurnedKcal - rec.EatenKcal, nil

	case AdjustFixed:
		return dailyGoal - rec.EatenKcal, nil

	case AdjustPercentage:
		pct := clamp(cfg.EarnBackPct, 0, 100)
		return dailyGoal + rec.BurnedKcal*pct/100 - rec.EatenKcal, nil

	case AdjustSmart:
		surplus := rec.BurnedKcal - cfg.ExerciseCalorieGoal
		if surplus < 0 {
			surplus = 0
		}
		return dailyGoal + surplus - rec.EatenKcal, nil

	case AdjustDeviceProjection:
		// No projection sample yet: fall back to the fixed-mode result.
		if rec.ElapsedDayFraction <= 0 {
			return dailyGoal - rec.EatenKcal, nil
		}
		projected := rec.PartialBurnKcal / rec.ElapsedDayFraction
		adjustment := projected - tdee
		if adjustment < 0 && !cfg.AllowNegativeAdjustment {
			adjustment = 0
		}
		return dailyGoal - rec.EatenKcal + adjustment, nil

	default:
		return 0, fmt.Errorf("%w: adjustment mode %q", ErrConfigOutOfRange, cfg.Mode)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
