// Package goal computes nutrition and energy targets: basal metabolic rate,
// daily energy budgets, macro and micronutrient targets, and the daily
// calorie adjustment that reconciles planned intake against measured
// activity. Everything in this package is a pure function over its inputs;
// persistence and display conversion live with the callers.
package goal

import (
	"time"

	"github.com/kcalplan/kcalplan/internal/algorithm"
)

// ActivityLevel describes habitual activity, mapped to a fixed TDEE
// multiplier.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityHeavy     ActivityLevel = "heavy"
)

// activityMultipliers is the single source of truth for valid activity
// levels and their TDEE multipliers.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityHeavy:     1.725,
}

// ActivityLevels returns the valid activity levels in ascending order.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityHeavy}
}

// PrimaryGoal is the direction of the calorie budget relative to TDEE.
type PrimaryGoal string

const (
	GoalLose     PrimaryGoal = "lose"
	GoalMaintain PrimaryGoal = "maintain"
	GoalGain     PrimaryGoal = "gain"
)

// PrimaryGoals returns the valid primary goals.
func PrimaryGoals() []PrimaryGoal {
	return []PrimaryGoal{GoalLose, GoalMaintain, GoalGain}
}

// Profile is the immutable input to a single computation. It is supplied by
// an external measurement source, already normalized to metric units.
type Profile struct {
	Sex       algorithm.Sex
	BirthDate time.Time
	WeightKg  float64
	HeightCm  float64
	Activity  ActivityLevel
}

// AgeAt returns whole years elapsed between the birth date and at,
// truncated (not rounded) as the formulas expect.
func (p Profile) AgeAt(at time.Time) int {
	age := at.Year() - p.BirthDate.Year()
	if at.Before(p.BirthDate.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// MacroSplit is a percentage allocation of calories across carbohydrate,
// protein, and fat. A valid split sums to exactly 100.
type MacroSplit struct {
	CarbsPct   float64 `json:"carbsPct"`
	ProteinPct float64 `json:"proteinPct"`
	FatPct     float64 `json:"fatPct"`
}

// Sum returns the total of the three percentages.
func (m MacroSplit) Sum() float64 {
	return m.CarbsPct + m.ProteinPct + m.FatPct
}

// DietTemplate names a preset macro split. TemplateCustom marks a
// user-managed split kept in balance by Rebalance.
type DietTemplate string

const (
	TemplateBalanced    DietTemplate = "balanced"
	TemplateLowCarb     DietTemplate = "low_carb"
	TemplateHighProtein DietTemplate = "high_protein"
	TemplateKeto        DietTemplate = "keto"
	TemplateCustom      DietTemplate = "custom"
)

var dietTemplates = map[DietTemplate]MacroSplit{
	TemplateBalanced:    {CarbsPct: 50, ProteinPct: 20, FatPct: 30},
	TemplateLowCarb:     {CarbsPct: 20, ProteinPct: 40, FatPct: 40},
	TemplateHighProtein: {CarbsPct: 30, ProteinPct: 40, FatPct: 30},
	TemplateKeto:        {CarbsPct: 5, ProteinPct: 25, FatPct: 70},
}

// TemplateSplit returns the preset split for a template. The second return
// is false for TemplateCustom and unknown names.
func TemplateSplit(t DietTemplate) (MacroSplit, bool) {
	s, ok := dietTemplates[t]
	return s, ok
}

// DietTemplates returns the preset template names plus TemplateCustom.
func DietTemplates() []DietTemplate {
	return []DietTemplate{TemplateBalanced, TemplateLowCarb, TemplateHighProtein, TemplateKeto, TemplateCustom}
}

// AlgorithmSelection is the set of algorithm identifiers active for a
// computation. Each field is independent; changing one never affects the
// others.
type AlgorithmSelection struct {
	BMR          algorithm.BMRID          `json:"bmr"`
	BodyFat      algorithm.BodyFatID      `json:"bodyFat"`
	FatBreakdown algorithm.FatBreakdownID `json:"fatBreakdown"`
	Mineral      algorithm.MineralID      `json:"mineral"`
	Vitamin      algorithm.VitaminID      `json:"vitamin"`
	Sugar        algorithm.SugarID        `json:"sugar"`
}

// DefaultAlgorithmSelection returns the system default selection.
func DefaultAlgorithmSelection() AlgorithmSelection {
	return AlgorithmSelection{
		BMR:          algorithm.BMRMifflinStJeor,
		BodyFat:      algorithm.BodyFatDeurenberg,
		FatBreakdown: algorithm.FatBreakdownDGA,
		Mineral:      algorithm.MineralNIH,
		Vitamin:      algorithm.VitaminNIH,
		Sugar:        algorithm.SugarWHO10Pct,
	}
}

// EnergyBudget is the BMR → TDEE → goal-adjusted calorie chain, in kcal.
// DailyCalorieGoal is rounded to the nearest 10 kcal.
type EnergyBudget struct {
	BMR              float64 `json:"bmr"`
	TDEE             float64 `json:"tdee"`
	DailyCalorieGoal float64 `json:"dailyCalorieGoal"`
}

// AdjustmentMode selects how measured activity changes the daily budget.
type AdjustmentMode string

const (
	AdjustDynamic          AdjustmentMode = "dynamic"
	AdjustFixed            AdjustmentMode = "fixed"
	AdjustPercentage       AdjustmentMode = "percentage"
	AdjustSmart            AdjustmentMode = "smart"
	AdjustDeviceProjection AdjustmentMode = "device_projection"
)

// AdjustmentModes returns the valid adjustment modes.
func AdjustmentModes() []AdjustmentMode {
	return []AdjustmentMode{AdjustDynamic, AdjustFixed, AdjustPercentage, AdjustSmart, AdjustDeviceProjection}
}

// CalorieAdjustmentConfig configures the daily reconciliation.
type CalorieAdjustmentConfig struct {
	Mode AdjustmentMode `json:"mode"`

	// EarnBackPct is the share of burned calories credited back, 0-100.
	// Used only in percentage mode.
	EarnBackPct float64 `json:"earnBackPct"`

	// ExerciseCalorieGoal is the burn threshold above which calories are
	// credited. Used only in smart mode.
	ExerciseCalorieGoal float64 `json:"exerciseCalorieGoal"`

	// AllowNegativeAdjustment permits a below-TDEE projection to shrink
	// the budget. Used only in device-projection mode.
	AllowNegativeAdjustment bool `json:"allowNegativeAdjustment"`
}

// ActivityEnergyRecord is the measured side of a day: energy eaten, energy
// burned from logged exercise, and (device-projection mode only) a
// partial-day burn sample with the elapsed fraction of the day it covers.
type ActivityEnergyRecord struct {
	EatenKcal  float64
	BurnedKcal float64

	PartialBurnKcal    float64
	ElapsedDayFraction float64
}

// GoalSnapshot is the complete set of computed nutrition targets for a day,
// always in kcal, grams, milligrams, and milliliters. Snapshots are value
// types: a recompute produces a patch applied over the previous snapshot,
// never a mutation.
type GoalSnapshot struct {
	Calories float64 `json:"calories"`

	ProteinG float64 `json:"proteinG"`
	CarbsG   float64 `json:"carbsG"`
	FatG     float64 `json:"fatG"`
	FiberG   float64 `json:"fiberG"`

	SaturatedFatG       float64 `json:"saturatedFatG"`
	TransFatG           float64 `json:"transFatG"`
	PolyunsaturatedFatG float64 `json:"polyunsaturatedFatG"`
	MonounsaturatedFatG float64 `json:"monounsaturatedFatG"`

	CholesterolMg float64 `json:"cholesterolMg"`
	SodiumMg      float64 `json:"sodiumMg"`
	PotassiumMg   float64 `json:"potassiumMg"`
	CalciumMg     float64 `json:"calciumMg"`
	IronMg        float64 `json:"ironMg"`

	SugarG float64 `json:"sugarG"`

	VitaminAMcg float64 `json:"vitaminAMcg"`
	VitaminCMg  float64 `json:"vitaminCMg"`

	WaterMl float64 `json:"waterMl"`

	ExerciseMinutes  float64 `json:"exerciseMinutes"`
	ExerciseCalories float64 `json:"exerciseCalories"`
}
