package goal

import (
	"fmt"
	"math"
)

// MacroField names one of the three linked sliders.
type MacroField string

const (
	FieldCarbs   MacroField = "carbs"
	FieldProtein MacroField = "protein"
	FieldFat     MacroField = "fat"
)

// Rebalance redistributes the two untouched percentages after the given
// slider moves to value, keeping the triple summing to exactly 100.
//
// The remaining percentage is split between the two untouched fields in
// proportion to their current ratio to each other (0.5/0.5 when both are
// zero). The first untouched field, in carbs → protein → fat order, gets
// the rounded share; the second is always the complement, never computed
// independently. That asymmetry is what keeps the sum exact under
// repeated rounding.
func Rebalance(split MacroSplit, moved MacroField, value float64) (MacroSplit, error) {
	if value < 0 || value > 100 {
		return split, fmt.Errorf("%w: slider value %v outside [0,100]", ErrConfigOutOfRange, value)
	}

	remaining := 100 - value

	switch moved {
	case FieldCarbs:
		first, second := shareRemaining(remaining, split.ProteinPct, split.FatPct)
		return MacroSplit{CarbsPct: value, ProteinPct: first, FatPct: second}, nil
	case FieldProtein:
		first, second := shareRemaining(remaining, split.CarbsPct, split.FatPct)
		return MacroSplit{CarbsPct: first, ProteinPct: value, FatPct: second}, nil
	case FieldFat:
		first, second := shareRemaining(remaining, split.CarbsPct, split.ProteinPct)
		return MacroSplit{CarbsPct: first, ProteinPct: second, FatPct: value}, nil
	default:
		return split, fmt.Errorf("%w: macro field %q", ErrConfigOutOfRange, moved)
	}
}

// shareRemaining splits remaining between two fields by their current
// relative ratio. currentA's share is rounded; currentB's is the exact
// complement.
func shareRemaining(remaining, currentA, currentB float64) (a, b float64) {
	ratio := 0.5
	if total := currentA + currentB; total > 0 {
		ratio = currentA / total
	}
	a = math.Round(remaining * ratio)
	return a, remaining - a
}
