package goal

import (
	"fmt"

	"github.com/kcalplan/kcalplan/internal/algorithm"
)

// NutrientInput carries everything the micronutrient strategies need.
// Calories and fat grams arrive pre-unit-conversion, in kcal and grams.
type NutrientInput struct {
	Sex       algorithm.Sex
	AgeYears  int
	WeightKg  float64
	HeightCm  float64
	Calories  float64
	TotalFatG float64
	Activity  ActivityLevel
}

// NutrientTargets is the structured output of the advanced calculation.
type NutrientTargets struct {
	FatBreakdown algorithm.FatBreakdown
	Minerals     algorithm.Minerals
	Vitamins     algorithm.Vitamins
	SugarG       float64
}

// subFractionSlack absorbs per-fraction rounding when checking the
// fat-breakdown bound: four fractions, each rounded to a whole gram.
const subFractionSlack = 2

// ComputeNutrients derives fat sub-fractions, mineral and vitamin targets,
// and the sugar ceiling, dispatching each category through the registry.
// A strategy whose output violates its bound (sub-fractions beyond total
// fat, sugar beyond the calorie-derived carbohydrate budget) is a defect in
// that strategy and is reported as ErrInvariantViolation, never corrected.
func ComputeNutrients(in NutrientInput, sel AlgorithmSelection) (NutrientTargets, error) {
	fatFn, err := algorithm.FatBreakdownFn(sel.FatBreakdown)
	if err != nil {
		return NutrientTargets{}, err
	}
	mineralFn, err := algorithm.Mineral(sel.Mineral)
	if err != nil {
		return NutrientTargets{}, err
	}
	vitaminFn, err := algorithm.Vitamin(sel.Vitamin)
	if err != nil {
		return NutrientTargets{}, err
	}
	sugarFn, err := algorithm.Sugar(sel.Sugar)
	if err != nil {
		return NutrientTargets{}, err
	}

	breakdown := fatFn(in.Calories, in.TotalFatG)
	if breakdown.Sum() > in.TotalFatG+subFractionSlack {
		return NutrientTargets{}, fmt.Errorf(
			"%w: fat strategy %q emitted %vg of sub-fractions for a %vg total",
			ErrInvariantViolation, sel.FatBreakdown, breakdown.Sum(), in.TotalFatG)
	}

	sugar := sugarFn(in.Sex, in.Calories)
	if sugar*kcalPerGramCarb > in.Calories {
		return NutrientTargets{}, fmt.Errorf(
			"%w: sugar strategy %q ceiling %vg exceeds the carbohydrate budget of %v kcal",
			ErrInvariantViolation, sel.Sugar, sugar, in.Calories)
	}

	return NutrientTargets{
		FatBreakdown: breakdown,
		Minerals:     mineralFn(in.Sex, in.AgeYears),
		Vitamins:     vitaminFn(in.Sex, in.AgeYears),
		SugarG:       sugar,
	}, nil
}

// EstimateBodyFat runs the selected body-fat estimator over a profile.
func EstimateBodyFat(p Profile, id algorithm.BodyFatID, ageYears int) (float64, error) {
	fn, err := algorithm.BodyFat(id)
	if err != nil {
		return 0, err
	}
	return fn(p.Sex, p.WeightKg, p.HeightCm, ageYears), nil
}
