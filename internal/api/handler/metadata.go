package handler

import (
	"net/http"

	"github.com/kcalplan/kcalplan/internal/algorithm"
	"github.com/kcalplan/kcalplan/internal/api/models"
	"github.com/kcalplan/kcalplan/internal/api/response"
	"github.com/kcalplan/kcalplan/internal/goal"
	"github.com/kcalplan/kcalplan/pkg/units"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct{}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// GetEnums handles GET /v1/metadata/enums - enum values used by the API.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		Sexes:           []string{string(algorithm.SexMale), string(algorithm.SexFemale)},
		ActivityLevels:  asStrings(goal.ActivityLevels()),
		Goals:           asStrings(goal.PrimaryGoals()),
		DietTemplates:   asStrings(goal.DietTemplates()),
		AdjustmentModes: asStrings(goal.AdjustmentModes()),
		Algorithms: models.AlgorithmCatalog{
			BMR:          asStrings(algorithm.BMRIDs()),
			BodyFat:      asStrings(algorithm.BodyFatIDs()),
			FatBreakdown: asStrings(algorithm.FatBreakdownIDs()),
			Mineral:      asStrings(algorithm.MineralIDs()),
			Vitamin:      asStrings(algorithm.VitaminIDs()),
			Sugar:        asStrings(algorithm.SugarIDs()),
		},
		Units: map[string][]string{
			string(units.KindWeight): units.Units(units.KindWeight),
			string(units.KindLength): units.Units(units.KindLength),
			string(units.KindEnergy): units.Units(units.KindEnergy),
			string(units.KindVolume): units.Units(units.KindVolume),
		},
	}
	response.JSON(w, r, http.StatusOK, enums)
}

// asStrings converts a slice of string-kinded values for the wire.
func asStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
