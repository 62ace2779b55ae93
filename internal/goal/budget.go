package goal

import (
	"fmt"
	"math"
	"time"

	"github.com/kcalplan/kcalplan/internal/algorithm"
)

// GainSurplusKcal is the fixed calorie surplus applied for the gain goal.
const GainSurplusKcal = 500

// loseFactor scales TDEE down for the lose goal.
const loseFactor = 0.8

// ComputeEnergyBudget derives BMR, TDEE, and the goal-adjusted daily
// calorie budget from a profile. The middle return is false when the
// profile cannot be computed from yet (missing or non-finite fields);
// callers must treat that as "no plan to display", not as a failure.
// The error return covers an unknown BMR identifier or primary goal.
func ComputeEnergyBudget(p Profile, bmrID algorithm.BMRID, primary PrimaryGoal, at time.Time) (EnergyBudget, bool, error) {
	if !profileReady(p, at) {
		return EnergyBudget{}, false, nil
	}

	bmrFn, err := algorithm.BMR(bmrID)
	if err != nil {
		return EnergyBudget{}, false, err
	}

	mult, ok := activityMultipliers[p.Activity]
	if !ok {
		return EnergyBudget{}, false, nil
	}

	bmr := bmrFn(p.Sex, p.WeightKg, p.HeightCm, p.AgeAt(at))
	tdee := bmr * mult

	var target float64
	switch primary {
	case GoalLose:
		target = tdee * loseFactor
	case GoalGain:
		target = tdee + GainSurplusKcal
	case GoalMaintain:
		target = tdee
	default:
		return EnergyBudget{}, false, fmt.Errorf("%w: primary goal %q", ErrConfigOutOfRange, primary)
	}

	return EnergyBudget{
		BMR:              bmr,
		TDEE:             tdee,
		DailyCalorieGoal: roundToNearest10(target),
	}, true, nil
}

// profileReady reports whether every required field is present and sane.
// A snapshot computed from an unready profile would carry NaNs downstream,
// so the guard sits here, ahead of all arithmetic.
func profileReady(p Profile, at time.Time) bool {
	if p.Sex != algorithm.SexMale && p.Sex != algorithm.SexFemale {
		return false
	}
	if p.BirthDate.IsZero() {
		return false
	}
	if !finitePositive(p.WeightKg) || !finitePositive(p.HeightCm) {
		return false
	}
	age := p.AgeAt(at)
	if age < 0 || age > 130 {
		return false
	}
	return true
}

func finitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func roundToNearest10(v float64) float64 {
	return math.Round(v/10) * 10
}
