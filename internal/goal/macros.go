package goal

import (
	"fmt"
	"math"
)

// Energy density, kcal per gram.
const (
	kcalPerGramCarb    = 4
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
)

// fiberGPer1000Kcal is the dietary fiber guideline: 14 g per 1000 kcal.
const fiberGPer1000Kcal = 14

// MacroTargets holds gram targets derived from a calorie budget and a
// macro split. Fiber is derived from calories alone, outside the split.
type MacroTargets struct {
	CarbsG   float64 `json:"carbsG"`
	ProteinG float64 `json:"proteinG"`
	FatG     float64 `json:"fatG"`
	FiberG   float64 `json:"fiberG"`
}

// AllocateMacros converts a calorie budget and a percentage split into gram
// targets. The arithmetic proceeds for any split; validity of the split is
// checked separately with MacroSplit.Validate so an imbalance can be
// surfaced alongside the (still arithmetically consistent) result.
func AllocateMacros(calories float64, split MacroSplit) MacroTargets {
	return MacroTargets{
		CarbsG:   math.Round(calories * split.CarbsPct / 100 / kcalPerGramCarb),
		ProteinG: math.Round(calories * split.ProteinPct / 100 / kcalPerGramProtein),
		FatG:     math.Round(calories * split.FatPct / 100 / kcalPerGramFat),
		FiberG:   math.Round(calories / 1000 * fiberGPer1000Kcal),
	}
}

// Validate reports an ErrInvariantViolation when the split does not sum to
// exactly 100. Callers surface this rather than renormalizing, since a
// silently corrected split could hide a defect upstream.
func (m MacroSplit) Validate() error {
	if m.Sum() != 100 {
		return fmt.Errorf("%w: macro split sums to %v, want 100", ErrInvariantViolation, m.Sum())
	}
	return nil
}
