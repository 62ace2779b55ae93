// Package units provides conversions between the measurement units the
// engine computes in (kg, cm, kcal, ml) and the units callers display in.
package units

import (
	"errors"
	"fmt"
)

// Conversion errors.
var (
	ErrUnknownUnit  = errors.New("unknown unit")
	ErrKindMismatch = errors.New("units are of different kinds")
)

// Exact conversion factors. These are the display-boundary factors; the
// engine itself never converts internally.
const (
	LbPerKg   = 2.20462
	CmPerIn   = 2.54
	KJPerKcal = 4.184
	MlPerOz   = 29.5735
	MlPerL    = 1000
)

// Kind classifies a unit by the quantity it measures.
type Kind string

const (
	KindWeight Kind = "weight"
	KindLength Kind = "length"
	KindEnergy Kind = "energy"
	KindVolume Kind = "volume"
)

// unitDef describes a unit by its kind and its factor to the base unit of
// that kind. Base units: kg, cm, kcal, ml.
type unitDef struct {
	kind   Kind
	toBase float64
}

var unitTable = map[string]unitDef{
	// weight (base = kg)
	"kg": {kind: KindWeight, toBase: 1},
	"lb": {kind: KindWeight, toBase: 1 / LbPerKg},

	// length (base = cm)
	"cm": {kind: KindLength, toBase: 1},
	"in": {kind: KindLength, toBase: CmPerIn},

	// energy (base = kcal)
	"kcal": {kind: KindEnergy, toBase: 1},
	"kj":   {kind: KindEnergy, toBase: 1 / KJPerKcal},

	// volume (base = ml)
	"ml": {kind: KindVolume, toBase: 1},
	"oz": {kind: KindVolume, toBase: MlPerOz},
	"l":  {kind: KindVolume, toBase: MlPerL},
}

// Convert converts value from one unit to another of the same kind.
func Convert(value float64, from, to string) (float64, error) {
	fromDef, ok := unitTable[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
	}
	toDef, ok := unitTable[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, to)
	}
	if fromDef.kind != toDef.kind {
		return 0, fmt.Errorf("%w: %q is %s, %q is %s", ErrKindMismatch, from, fromDef.kind, to, toDef.kind)
	}
	return value * fromDef.toBase / toDef.toBase, nil
}

// KindOf returns the kind of a unit name.
func KindOf(unit string) (Kind, error) {
	def, ok := unitTable[unit]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return def.kind, nil
}

// Units returns the supported unit names for a kind, in display order.
func Units(kind Kind) []string {
	switch kind {
	case KindWeight:
		return []string{"kg", "lb"}
	case KindLength:
		return []string{"cm", "in"}
	case KindEnergy:
		return []string{"kcal", "kj"}
	case KindVolume:
		return []string{"ml", "oz", "l"}
	}
	return nil
}

// KgToLb converts kilograms to pounds.
func KgToLb(kg float64) float64 { return kg * LbPerKg }

// LbToKg converts pounds to kilograms.
func LbToKg(lb float64) float64 { return lb / LbPerKg }

// CmToIn converts centimeters to inches.
func CmToIn(cm float64) float64 { return cm / CmPerIn }

// InToCm converts inches to centimeters.
func InToCm(in float64) float64 { return in * CmPerIn }

// KcalToKJ converts kilocalories to kilojoules.
func KcalToKJ(kcal float64) float64 { return kcal * KJPerKcal }

// KJToKcal converts kilojoules to kilocalories.
func KJToKcal(kj float64) float64 { return kj / KJPerKcal }

// MlToOz converts milliliters to fluid ounces.
func MlToOz(ml float64) float64 { return ml / MlPerOz }

// OzToMl converts fluid ounces to milliliters.
func OzToMl(oz float64) float64 { return oz * MlPerOz }

// LToMl converts liters to milliliters.
func LToMl(l float64) float64 { return l * MlPerL }

// MlToL converts milliliters to liters.
func MlToL(ml float64) float64 { return ml / MlPerL }
