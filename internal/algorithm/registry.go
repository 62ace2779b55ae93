// Package algorithm provides the registry of swappable nutrition formulas.
// Each category maps an identifier to a pure function with a fixed signature;
// callers select by identifier and never branch on the formula themselves.
package algorithm

import (
	"errors"
	"fmt"
)

// ErrUnknownAlgorithm is returned when an identifier is not registered in
// its category.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Sex is the biological sex the formulas are parameterized on.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Category identifiers. Each is an independent configuration value.
type (
	BMRID          string
	BodyFatID      string
	FatBreakdownID string
	MineralID      string
	VitaminID      string
	SugarID        string
)

// Registered identifiers per category. The first of each group is the
// system default.
const (
	BMRMifflinStJeor          BMRID = "mifflin_st_jeor"
	BMRHarrisBenedict         BMRID = "harris_benedict"
	BMRHarrisBenedictOriginal BMRID = "harris_benedict_original"

	BodyFatDeurenberg BodyFatID = "deurenberg"
	BodyFatGallagher  BodyFatID = "gallagher"

	FatBreakdownDGA FatBreakdownID = "dga"
	FatBreakdownAHA FatBreakdownID = "aha"

	MineralNIH MineralID = "nih"
	MineralWHO MineralID = "who"

	VitaminNIH  VitaminID = "nih"
	VitaminEFSA VitaminID = "efsa"

	SugarWHO10Pct SugarID = "who_10pct"
	SugarWHO5Pct  SugarID = "who_5pct"
	SugarAHA      SugarID = "aha"
)

// Function signatures per category.
type (
	// BMRFunc computes basal metabolic rate in kcal/day.
	BMRFunc func(sex Sex, weightKg, heightCm float64, ageYears int) float64

	// BodyFatFunc estimates body fat as a percentage of body weight.
	BodyFatFunc func(sex Sex, weightKg, heightCm float64, ageYears int) float64

	// FatBreakdownFunc splits a total fat budget into sub-fractions.
	// Implementations must keep the sum of fractions within totalFatG.
	FatBreakdownFunc func(calories, totalFatG float64) FatBreakdown

	// MineralFunc returns daily mineral targets in milligrams.
	MineralFunc func(sex Sex, ageYears int) Minerals

	// VitaminFunc returns daily vitamin targets.
	VitaminFunc func(sex Sex, ageYears int) Vitamins

	// SugarFunc returns the daily added-sugar ceiling in grams.
	// Implementations must keep the ceiling within the calorie-derived
	// carbohydrate budget.
	SugarFunc func(sex Sex, calories float64) float64
)

// FatBreakdown holds fat sub-fraction targets in grams.
type FatBreakdown struct {
	SaturatedG       float64
	TransG           float64
	PolyunsaturatedG float64
	MonounsaturatedG float64
}

// Sum returns the total grams across all sub-fractions.
func (f FatBreakdown) Sum() float64 {
	return f.SaturatedG + f.TransG + f.PolyunsaturatedG + f.MonounsaturatedG
}

// Minerals holds daily mineral targets in milligrams.
type Minerals struct {
	CholesterolMg float64
	SodiumMg      float64
	PotassiumMg   float64
	CalciumMg     float64
	IronMg        float64
}

// Vitamins holds daily vitamin targets.
type Vitamins struct {
	VitaminAMcg float64 // µg retinol activity equivalents
	VitaminCMg  float64
}

// Registry tables. Adding a variant is a local change here; callers go
// through the lookup functions and never see the table.
var (
	bmrAlgorithms = map[BMRID]BMRFunc{
		BMRMifflinStJeor:          mifflinStJeor,
		BMRHarrisBenedict:         harrisBenedictRevised,
		BMRHarrisBenedictOriginal: harrisBenedictOriginal,
	}

	bodyFatAlgorithms = map[BodyFatID]BodyFatFunc{
		BodyFatDeurenberg: deurenberg,
		BodyFatGallagher:  gallagher,
	}

	fatBreakdownAlgorithms = map[FatBreakdownID]FatBreakdownFunc{
		FatBreakdownDGA: fatBreakdownDGA,
		FatBreakdownAHA: fatBreakdownAHA,
	}

	mineralAlgorithms = map[MineralID]MineralFunc{
		MineralNIH: mineralsNIH,
		MineralWHO: mineralsWHO,
	}

	vitaminAlgorithms = map[VitaminID]VitaminFunc{
		VitaminNIH:  vitaminsNIH,
		VitaminEFSA: vitaminsEFSA,
	}

	sugarAlgorithms = map[SugarID]SugarFunc{
		SugarWHO10Pct: sugarWHOPct(0.10),
		SugarWHO5Pct:  sugarWHOPct(0.05),
		SugarAHA:      sugarAHA,
	}
)

// BMR looks up a BMR algorithm by identifier.
func BMR(id BMRID) (BMRFunc, error) {
	fn, ok := bmrAlgorithms[id]
	if !ok {
		return nil, fmt.Errorf("%w: bmr %q", ErrUnknownAlgorithm, id)
	}
	return fn, nil
}

// BodyFat looks up a body-fat estimator by identifier.
func BodyFat(id BodyFatID) (BodyFatFunc, error) {
	fn, ok := bodyFatAlgorithms[id]
	if !ok {
		return nil, fmt.Errorf("%w: body_fat %q", ErrUnknownAlgorithm, id)
	}
	return fn, nil
}

// FatBreakdownFn looks up a fat-breakdown splitter by identifier.
func FatBreakdownFn(id FatBreakdownID) (FatBreakdownFunc, error) {
	fn, ok := fatBreakdownAlgorithms[id]
	if !ok {
		return nil, fmt.Errorf("%w: fat_breakdown %q", ErrUnknownAlgorithm, id)
	}
	return fn, nil
}

// Mineral looks up a mineral-target function by identifier.
func Mineral(id MineralID) (MineralFunc, error) {
	fn, ok := mineralAlgorithms[id]
	if !ok {
		return nil, fmt.Errorf("%w: mineral %q", ErrUnknownAlgorithm, id)
	}
	return fn, nil
}

// Vitamin looks up a vitamin-target function by identifier.
func Vitamin(id VitaminID) (VitaminFunc, error) {
	fn, ok := vitaminAlgorithms[id]
	if !ok {
		return nil, fmt.Errorf("%w: vitamin %q", ErrUnknownAlgorithm, id)
	}
	return fn, nil
}

// Sugar looks up a sugar-ceiling function by identifier.
func Sugar(id SugarID) (SugarFunc, error) {
	fn, ok := sugarAlgorithms[id]
	if !ok {
		return nil, fmt.Errorf("%w: sugar %q", ErrUnknownAlgorithm, id)
	}
	return fn, nil
}

// BMRIDs returns the registered BMR identifiers, default first.
func BMRIDs() []BMRID {
	return []BMRID{BMRMifflinStJeor, BMRHarrisBenedict, BMRHarrisBenedictOriginal}
}

// BodyFatIDs returns the registered body-fat identifiers, default first.
func BodyFatIDs() []BodyFatID {
	return []BodyFatID{BodyFatDeurenberg, BodyFatGallagher}
}

// FatBreakdownIDs returns the registered fat-breakdown identifiers, default first.
func FatBreakdownIDs() []FatBreakdownID {
	return []FatBreakdownID{FatBreakdownDGA, FatBreakdownAHA}
}

// MineralIDs returns the registered mineral identifiers, default first.
func MineralIDs() []MineralID {
	return []MineralID{MineralNIH, MineralWHO}
}

// VitaminIDs returns the registered vitamin identifiers, default first.
func VitaminIDs() []VitaminID {
	return []VitaminID{VitaminNIH, VitaminEFSA}
}

// SugarIDs returns the registered sugar identifiers, default first.
func SugarIDs() []SugarID {
	return []SugarID{SugarWHO10Pct, SugarWHO5Pct, SugarAHA}
}
