package models

// Enums lists the enumerated values accepted by the API, so clients can
// populate pickers without hardcoding them.
type Enums struct {
	Sexes           []string `json:"sexes"`
	ActivityLevels  []string `json:"activityLevels"`
	Goals           []string `json:"goals"`
	DietTemplates   []string `json:"dietTemplates"`
	AdjustmentModes []string `json:"adjustmentModes"`

	Algorithms AlgorithmCatalog `json:"algorithms"`

	Units map[string][]string `json:"units"`
}

// AlgorithmCatalog lists the registered algorithm identifiers per category.
type AlgorithmCatalog struct {
	BMR          []string `json:"bmr"`
	BodyFat      []string `json:"bodyFat"`
	FatBreakdown []string `json:"fatBreakdown"`
	Mineral      []string `json:"mineral"`
	Vitamin      []string `json:"vitamin"`
	Sugar        []string `json:"sugar"`
}
