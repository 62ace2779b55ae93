package algorithm

// mifflinStJeor is the reference BMR formula (Mifflin et al., 1990) and the
// system default.
func mifflinStJeor(sex Sex, weightKg, heightCm float64, ageYears int) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if sex == SexMale {
		return bmr + 5
	}
	return bmr - 161
}

// harrisBenedictRevised uses the Roza & Shizgal (1984) revision of the
// Harris-Benedict equation.
func harrisBenedictRevised(sex Sex, weightKg, heightCm float64, ageYears int) float64 {
	age := float64(ageYears)
	if sex == SexMale {
		return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*age
	}
	return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*age
}

// harrisBenedictOriginal uses the original Harris & Benedict (1919)
// coefficients.
func harrisBenedictOriginal(sex Sex, weightKg, heightCm float64, ageYears int) float64 {
	age := float64(ageYears)
	if sex == SexMale {
		return 66.4730 + 13.7516*weightKg + 5.0033*heightCm - 6.7550*age
	}
	return 655.0955 + 9.5634*weightKg + 1.8496*heightCm - 4.6756*age
}
