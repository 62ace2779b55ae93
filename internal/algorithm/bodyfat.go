package algorithm

// bmi computes body mass index from weight and height. Returns 0 when
// height is not positive so estimators degrade to 0 instead of dividing
// by zero.
func bmi(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// deurenberg estimates body fat percentage from BMI, age, and sex
// (Deurenberg et al., 1991).
func deurenberg(sex Sex, weightKg, heightCm float64, ageYears int) float64 {
	b := bmi(weightKg, heightCm)
	if b == 0 {
		return 0
	}
	sexFactor := 0.0
	if sex == SexMale {
		sexFactor = 1.0
	}
	pct := 1.20*b + 0.23*float64(ageYears) - 10.8*sexFactor - 5.4
	if pct < 0 {
		return 0
	}
	return pct
}

// gallagher estimates body fat percentage from BMI, age, and sex
// (Gallagher et al., 2000).
func gallagher(sex Sex, weightKg, heightCm float64, ageYears int) float64 {
	b := bmi(weightKg, heightCm)
	if b == 0 {
		return 0
	}
	sexFactor := 0.0
	if sex == SexMale {
		sexFactor = 1.0
	}
	age := float64(ageYears)
	pct := 64.5 - 848/b + 0.079*age - 16.4*sexFactor + 0.05*sexFactor*age + 39.0*sexFactor/b
	if pct < 0 {
		return 0
	}
	return pct
}
