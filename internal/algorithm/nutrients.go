package algorithm

import "math"

// Energy density of fat and carbohydrate, kcal per gram.
const (
	kcalPerGramFat  = 9
	kcalPerGramCarb = 4
)

// capped returns the smaller of a calorie-share-derived gram value and the
// remaining fat budget, never below zero.
func capped(grams, remaining float64) float64 {
	if remaining <= 0 {
		return 0
	}
	return math.Min(grams, remaining)
}

// fatBreakdownDGA splits total fat per the Dietary Guidelines for Americans
// (saturated fat below 10% of energy) and the WHO trans-fat limit (below 1%
// of energy), with up to 10% of energy as polyunsaturated fat and the
// remainder monounsaturated. Every fraction is capped so the sum never
// exceeds totalFatG.
func fatBreakdownDGA(calories, totalFatG float64) FatBreakdown {
	remaining := totalFatG
	sat := capped(calories*0.10/kcalPerGramFat, remaining)
	remaining -= sat
	trans := capped(calories*0.01/kcalPerGramFat, remaining)
	remaining -= trans
	poly := capped(calories*0.10/kcalPerGramFat, remaining)
	remaining -= poly

	return FatBreakdown{
		SaturatedG:       math.Round(sat),
		TransG:           math.Round(trans),
		PolyunsaturatedG: math.Round(poly),
		MonounsaturatedG: math.Round(math.Max(0, remaining)),
	}
}

// fatBreakdownAHA uses the American Heart Association saturated-fat target
// of 6% of energy; trans and polyunsaturated shares as in fatBreakdownDGA.
func fatBreakdownAHA(calories, totalFatG float64) FatBreakdown {
	remaining := totalFatG
	sat := capped(calories*0.06/kcalPerGramFat, remaining)
	remaining -= sat
	trans := capped(calories*0.01/kcalPerGramFat, remaining)
	remaining -= trans
	poly := capped(calories*0.10/kcalPerGramFat, remaining)
	remaining -= poly

	return FatBreakdown{
		SaturatedG:       math.Round(sat),
		TransG:           math.Round(trans),
		PolyunsaturatedG: math.Round(poly),
		MonounsaturatedG: math.Round(math.Max(0, remaining)),
	}
}

// mineralsNIH returns targets from the NIH dietary reference intakes for
// adults plus the historical 300 mg cholesterol limit.
func mineralsNIH(sex Sex, ageYears int) Minerals {
	m := Minerals{
		CholesterolMg: 300,
		SodiumMg:      2300,
		PotassiumMg:   2600,
		CalciumMg:     1000,
		IronMg:        8,
	}
	if sex == SexMale {
		m.PotassiumMg = 3400
	}
	if sex == SexFemale && ageYears <= 50 {
		m.IronMg = 18
	}
	// Calcium RDA rises to 1200 mg for women over 50 and everyone over 70.
	if ageYears > 70 || (sex == SexFemale && ageYears > 50) {
		m.CalciumMg = 1200
	}
	return m
}

// mineralsWHO overrides sodium and potassium with the WHO guideline values
// (2000 mg sodium, 3510 mg potassium); the remaining targets follow the NIH
// tables, which WHO does not restate.
func mineralsWHO(sex Sex, ageYears int) Minerals {
	m := mineralsNIH(sex, ageYears)
	m.SodiumMg = 2000
	m.PotassiumMg = 3510
	return m
}

// vitaminsNIH returns the NIH adult RDAs for vitamins A and C.
func vitaminsNIH(sex Sex, _ int) Vitamins {
	if sex == SexMale {
		return Vitamins{VitaminAMcg: 900, VitaminCMg: 90}
	}
	return Vitamins{VitaminAMcg: 700, VitaminCMg: 75}
}

// vitaminsEFSA returns the EFSA adult dietary reference values.
func vitaminsEFSA(sex Sex, _ int) Vitamins {
	if sex == SexMale {
		return Vitamins{VitaminAMcg: 750, VitaminCMg: 110}
	}
	return Vitamins{VitaminAMcg: 650, VitaminCMg: 95}
}

// sugarWHOPct builds a sugar ceiling as a share of total energy, per the
// WHO free-sugars guideline (strong recommendation 10%, conditional 5%).
func sugarWHOPct(share float64) SugarFunc {
	return func(_ Sex, calories float64) float64 {
		return math.Round(calories * share / kcalPerGramCarb)
	}
}

// sugarAHA returns the fixed AHA added-sugar ceilings: 36 g for men, 25 g
// for women, capped by the calorie-derived carbohydrate budget.
func sugarAHA(sex Sex, calories float64) float64 {
	ceiling := 25.0
	if sex == SexMale {
		ceiling = 36.0
	}
	return math.Min(ceiling, math.Round(calories/kcalPerGramCarb))
}
