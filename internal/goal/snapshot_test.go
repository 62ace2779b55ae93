package goal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcalplan/kcalplan/internal/algorithm"
	"github.com/kcalplan/kcalplan/internal/goal"
)

func planInput() goal.PlanInput {
	return goal.PlanInput{
		Profile:   validProfile(),
		Primary:   goal.GoalLose,
		Split:     goal.MacroSplit{CarbsPct: 40, ProteinPct: 30, FatPct: 30},
		Selection: goal.DefaultAlgorithmSelection(),
		At:        evalTime,
	}
}

func TestComputePlan_FullSnapshot(t *testing.T) {
	plan, ok, err := goal.ComputePlan(planInput())
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 1780.0, plan.Budget.BMR)
	assert.Equal(t, 2210.0, plan.Budget.DailyCalorieGoal)
	assert.Greater(t, plan.BodyFatPct, 0.0)

	// A full computation carries every category.
	assert.ElementsMatch(t, goal.AllCategories(), plan.Patch.Categories())

	snap := plan.Patch.ApplyTo(goal.GoalSnapshot{})
	assert.Equal(t, 2210.0, snap.Calories)
	assert.Equal(t, 221.0, snap.CarbsG)
	assert.Equal(t, 166.0, snap.ProteinG)
	assert.Equal(t, 74.0, snap.FatG)
	assert.Equal(t, 31.0, snap.FiberG)
	assert.Equal(t, 2300.0, snap.SodiumMg)
	assert.Equal(t, 900.0, snap.VitaminAMcg)
	// WHO 10% of 2210 kcal.
	assert.Equal(t, 55.0, snap.SugarG)
	assert.Equal(t, 2500.0, snap.WaterMl)
	assert.Equal(t, 30.0, snap.ExerciseMinutes)
	assert.LessOrEqual(t, snap.SaturatedFatG+snap.TransFatG+snap.PolyunsaturatedFatG+snap.MonounsaturatedFatG, snap.FatG+2)
}

func TestComputePlan_UnreadyProfile(t *testing.T) {
	in := planInput()
	in.Profile.WeightKg = 0

	plan, ok, err := goal.ComputePlan(in)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, plan)
}

func TestComputePlan_PreferenceOverrides(t *testing.T) {
	in := planInput()
	in.WaterGoalMl = 3000
	in.ExerciseMinutes = 45
	in.ExerciseCalories = 350

	plan, ok, err := goal.ComputePlan(in)
	require.NoError(t, err)
	require.True(t, ok)

	snap := plan.Patch.ApplyTo(goal.GoalSnapshot{})
	assert.Equal(t, 3000.0, snap.WaterMl)
	assert.Equal(t, 45.0, snap.ExerciseMinutes)
	assert.Equal(t, 350.0, snap.ExerciseCalories)
}

func TestRecomputeForSelection_ScopedPatch(t *testing.T) {
	svc := goal.NewService(goal.ServiceConfig{})

	plan, ok, err := svc.RecomputeForSelection(planInput(), []goal.SelectionField{goal.SelectionMineral})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []goal.Category{goal.CategoryMinerals}, plan.Patch.Categories())

	// Applying the scoped patch preserves user-edited fields in every
	// other category.
	prev := goal.GoalSnapshot{Calories: 1900, ProteinG: 150, SugarG: 20, SodiumMg: 1500}
	next := plan.Patch.ApplyTo(prev)
	assert.Equal(t, 1900.0, next.Calories)
	assert.Equal(t, 150.0, next.ProteinG)
	assert.Equal(t, 20.0, next.SugarG)
	assert.Equal(t, 2300.0, next.SodiumMg)
	// The input snapshot itself is untouched.
	assert.Equal(t, 1500.0, prev.SodiumMg)
}

func TestRecomputeForSelection_BMRCascades(t *testing.T) {
	svc := goal.NewService(goal.ServiceConfig{})

	plan, ok, err := svc.RecomputeForSelection(planInput(), []goal.SelectionField{goal.SelectionBMR})
	require.NoError(t, err)
	require.True(t, ok)

	assert.ElementsMatch(t,
		[]goal.Category{goal.CategoryEnergy, goal.CategoryMacros, goal.CategoryFatBreakdown, goal.CategorySugar},
		plan.Patch.Categories())
	assert.Nil(t, plan.Patch.Minerals)
	assert.Nil(t, plan.Patch.Vitamins)
}

func TestComputePlan_InvalidSplitSurfaced(t *testing.T) {
	in := planInput()
	in.Split = goal.MacroSplit{CarbsPct: 60, ProteinPct: 30, FatPct: 30}

	_, _, err := goal.ComputePlan(in)
	assert.ErrorIs(t, err, goal.ErrInvariantViolation)
}

func TestComputePlan_UnknownSelection(t *testing.T) {
	in := planInput()
	in.Selection.Vitamin = "usda_1980"

	_, _, err := goal.ComputePlan(in)
	assert.ErrorIs(t, err, algorithm.ErrUnknownAlgorithm)
}
