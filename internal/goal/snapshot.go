package goal

import (
	"time"

	"github.com/kcalplan/kcalplan/internal/algorithm"
)

// Category names a group of snapshot fields that recompute together. A
// patch carries only the categories it recomputed; fields in other
// categories are left to whatever the caller's merge policy preserves.
type Category string

const (
	CategoryEnergy       Category = "energy"
	CategoryMacros       Category = "macros"
	CategoryFatBreakdown Category = "fat_breakdown"
	CategoryMinerals     Category = "minerals"
	CategoryVitamins     Category = "vitamins"
	CategorySugar        Category = "sugar"
	CategoryWater        Category = "water"
	CategoryExercise     Category = "exercise"
)

// AllCategories returns every snapshot category.
func AllCategories() []Category {
	return []Category{
		CategoryEnergy, CategoryMacros, CategoryFatBreakdown, CategoryMinerals,
		CategoryVitamins, CategorySugar, CategoryWater, CategoryExercise,
	}
}

// SelectionField names one of the algorithm selection slots.
type SelectionField string

const (
	SelectionBMR          SelectionField = "bmr"
	SelectionBodyFat      SelectionField = "body_fat"
	SelectionFatBreakdown SelectionField = "fat_breakdown"
	SelectionMineral      SelectionField = "mineral"
	SelectionVitamin      SelectionField = "vitamin"
	SelectionSugar        SelectionField = "sugar"
)

// OwnedCategories maps a selection field to the snapshot categories it
// recomputes. A BMR change cascades through the calorie budget into every
// calorie-derived category; the others own exactly their own category.
// Body-fat estimators feed no snapshot field and own nothing.
func OwnedCategories(f SelectionField) []Category {
	switch f {
	case SelectionBMR:
		return []Category{CategoryEnergy, CategoryMacros, CategoryFatBreakdown, CategorySugar}
	case SelectionFatBreakdown:
		return []Category{CategoryFatBreakdown}
	case SelectionMineral:
		return []Category{CategoryMinerals}
	case SelectionVitamin:
		return []Category{CategoryVitamins}
	case SelectionSugar:
		return []Category{CategorySugar}
	default:
		return nil
	}
}

// ExerciseTargets holds the daily exercise duration and burn targets.
type ExerciseTargets struct {
	Minutes  float64
	Calories float64
}

// SnapshotPatch is the engine's output: only the field groups it
// recomputed, each nil when untouched. The caller owns the merge policy.
type SnapshotPatch struct {
	Calories     *float64
	Macros       *MacroTargets
	FatBreakdown *FatBreakdownPatch
	Minerals     *MineralsPatch
	Vitamins     *VitaminsPatch
	SugarG       *float64
	WaterMl      *float64
	Exercise     *ExerciseTargets
}

// FatBreakdownPatch mirrors the fat sub-fraction fields of a snapshot.
type FatBreakdownPatch struct {
	SaturatedG       float64
	TransG           float64
	PolyunsaturatedG float64
	MonounsaturatedG float64
}

// MineralsPatch mirrors the mineral fields of a snapshot.
type MineralsPatch struct {
	CholesterolMg float64
	SodiumMg      float64
	PotassiumMg   float64
	CalciumMg     float64
	IronMg        float64
}

// VitaminsPatch mirrors the vitamin fields of a snapshot.
type VitaminsPatch struct {
	VitaminAMcg float64
	VitaminCMg  float64
}

// Categories lists the categories present in the patch.
func (p SnapshotPatch) Categories() []Category {
	var cats []Category
	if p.Calories != nil {
		cats = append(cats, CategoryEnergy)
	}
	if p.Macros != nil {
		cats = append(cats, CategoryMacros)
	}
	if p.FatBreakdown != nil {
		cats = append(cats, CategoryFatBreakdown)
	}
	if p.Minerals != nil {
		cats = append(cats, CategoryMinerals)
	}
	if p.Vitamins != nil {
		cats = append(cats, CategoryVitamins)
	}
	if p.SugarG != nil {
		cats = append(cats, CategorySugar)
	}
	if p.WaterMl != nil {
		cats = append(cats, CategoryWater)
	}
	if p.Exercise != nil {
		cats = append(cats, CategoryExercise)
	}
	return cats
}

// ApplyTo merges the patch over a previous snapshot, replacing only the
// categories the patch carries. prev is passed by value; the previous
// snapshot is never mutated.
func (p SnapshotPatch) ApplyTo(prev GoalSnapshot) GoalSnapshot {
	next := prev
	if p.Calories != nil {
		next.Calories = *p.Calories
	}
	if p.Macros != nil {
		next.CarbsG = p.Macros.CarbsG
		next.ProteinG = p.Macros.ProteinG
		next.FatG = p.Macros.FatG
		next.FiberG = p.Macros.FiberG
	}
	if p.FatBreakdown != nil {
		next.SaturatedFatG = p.FatBreakdown.SaturatedG
		next.TransFatG = p.FatBreakdown.TransG
		next.PolyunsaturatedFatG = p.FatBreakdown.PolyunsaturatedG
		next.MonounsaturatedFatG = p.FatBreakdown.MonounsaturatedG
	}
	if p.Minerals != nil {
		next.CholesterolMg = p.Minerals.CholesterolMg
		next.SodiumMg = p.Minerals.SodiumMg
		next.PotassiumMg = p.Minerals.PotassiumMg
		next.CalciumMg = p.Minerals.CalciumMg
		next.IronMg = p.Minerals.IronMg
	}
	if p.Vitamins != nil {
		next.VitaminAMcg = p.Vitamins.VitaminAMcg
		next.VitaminCMg = p.Vitamins.VitaminCMg
	}
	if p.SugarG != nil {
		next.SugarG = *p.SugarG
	}
	if p.WaterMl != nil {
		next.WaterMl = *p.WaterMl
	}
	if p.Exercise != nil {
		next.ExerciseMinutes = p.Exercise.Minutes
		next.ExerciseCalories = p.Exercise.Calories
	}
	return next
}

// EFSA adequate-intake water values, total per day in milliliters.
const (
	defaultWaterMlMale   = 2500
	defaultWaterMlFemale = 2000
)

// defaultExerciseMinutes renders the WHO 150 min/week activity guideline
// as a daily target.
const defaultExerciseMinutes = 30

// PlanInput carries everything a full plan computation needs. Water and
// exercise values are preference-supplied defaults; zero means "use the
// built-in default".
type PlanInput struct {
	Profile   Profile
	Primary   PrimaryGoal
	Split     MacroSplit
	Selection AlgorithmSelection

	WaterGoalMl      float64
	ExerciseMinutes  float64
	ExerciseCalories float64

	At time.Time
}

// Plan is a full computation result: the energy budget chain, the selected
// body-fat estimate, and the snapshot patch covering the requested
// categories.
type Plan struct {
	Budget     EnergyBudget
	BodyFatPct float64
	Patch      SnapshotPatch
}

// ComputePlan computes a plan covering every category. The middle return
// is false when the profile is not ready (see ComputeEnergyBudget).
func ComputePlan(in PlanInput) (*Plan, bool, error) {
	return ComputePlanCategories(in, AllCategories())
}

// ComputePlanCategories computes a plan whose patch covers only the given
// categories, for selection-change recomputes that must leave other
// (possibly user-edited) categories untouched.
func ComputePlanCategories(in PlanInput, categories []Category) (*Plan, bool, error) {
	budget, ok, err := ComputeEnergyBudget(in.Profile, in.Selection.BMR, in.Primary, in.At)
	if err != nil || !ok {
		return nil, ok, err
	}

	if err := in.Split.Validate(); err != nil {
		return nil, false, err
	}

	age := in.Profile.AgeAt(in.At)
	bodyFat, err := EstimateBodyFat(in.Profile, in.Selection.BodyFat, age)
	if err != nil {
		return nil, false, err
	}

	macros := AllocateMacros(budget.DailyCalorieGoal, in.Split)
	nutrients, err := ComputeNutrients(NutrientInput{
		Sex:       in.Profile.Sex,
		AgeYears:  age,
		WeightKg:  in.Profile.WeightKg,
		HeightCm:  in.Profile.HeightCm,
		Calories:  budget.DailyCalorieGoal,
		TotalFatG: macros.FatG,
		Activity:  in.Profile.Activity,
	}, in.Selection)
	if err != nil {
		return nil, false, err
	}

	water := in.WaterGoalMl
	if water <= 0 {
		water = defaultWaterMlFemale
		if in.Profile.Sex == algorithm.SexMale {
			water = defaultWaterMlMale
		}
	}
	exercise := ExerciseTargets{Minutes: in.ExerciseMinutes, Calories: in.ExerciseCalories}
	if exercise.Minutes <= 0 {
		exercise.Minutes = defaultExerciseMinutes
	}

	patch := SnapshotPatch{}
	for _, cat := range categories {
		switch cat {
		case CategoryEnergy:
			calories := budget.DailyCalorieGoal
			patch.Calories = &calories
		case CategoryMacros:
			m := macros
			patch.Macros = &m
		case CategoryFatBreakdown:
			patch.FatBreakdown = &FatBreakdownPatch{
				SaturatedG:       nutrients.FatBreakdown.SaturatedG,
				TransG:           nutrients.FatBreakdown.TransG,
				PolyunsaturatedG: nutrients.FatBreakdown.PolyunsaturatedG,
				MonounsaturatedG: nutrients.FatBreakdown.MonounsaturatedG,
			}
		case CategoryMinerals:
			patch.Minerals = &MineralsPatch{
				CholesterolMg: nutrients.Minerals.CholesterolMg,
				SodiumMg:      nutrients.Minerals.SodiumMg,
				PotassiumMg:   nutrients.Minerals.PotassiumMg,
				CalciumMg:     nutrients.Minerals.CalciumMg,
				IronMg:        nutrients.Minerals.IronMg,
			}
		case CategoryVitamins:
			patch.Vitamins = &VitaminsPatch{
				VitaminAMcg: nutrients.Vitamins.VitaminAMcg,
				VitaminCMg:  nutrients.Vitamins.VitaminCMg,
			}
		case CategorySugar:
			sugar := nutrients.SugarG
			patch.SugarG = &sugar
		case CategoryWater:
			w := water
			patch.WaterMl = &w
		case CategoryExercise:
			e := exercise
			patch.Exercise = &e
		}
	}

	return &Plan{Budget: budget, BodyFatPct: bodyFat, Patch: patch}, true, nil
}
