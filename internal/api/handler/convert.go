// Package handler provides HTTP handlers for the kcalplan API.
package handler

import (
	"errors"
	"net/http"

	"github.com/kcalplan/kcalplan/internal/algorithm"
	"github.com/kcalplan/kcalplan/internal/api/models"
	"github.com/kcalplan/kcalplan/internal/api/response"
	"github.com/kcalplan/kcalplan/internal/goal"
	"github.com/kcalplan/kcalplan/internal/preferences"
)

// toProfile converts the wire profile to the engine's input. No validation
// happens here: an incomplete or nonsensical profile yields ready=false from
// the engine rather than an error.
func toProfile(p models.ProfilePayload) goal.Profile {
	return goal.Profile{
		Sex:       algorithm.Sex(p.Sex),
		BirthDate: p.BirthDate.Time(),
		WeightKg:  p.WeightKg,
		HeightCm:  p.HeightCm,
		Activity:  goal.ActivityLevel(p.ActivityLevel),
	}
}

// resolveSplit returns the macro split for a request, honoring per-request
// template/split overrides over stored preferences.
func resolveSplit(prefs *preferences.Preferences, template *string, custom *goal.MacroSplit) goal.MacroSplit {
	if custom != nil {
		return *custom
	}
	if template != nil {
		if split, ok := goal.TemplateSplit(goal.DietTemplate(*template)); ok {
			return split
		}
	}
	return prefs.Split()
}

// mergeSelection overlays the non-empty fields of override onto base.
func mergeSelection(base goal.AlgorithmSelection, override *goal.AlgorithmSelection) goal.AlgorithmSelection {
	if override == nil {
		return base
	}
	merged := base
	if override.BMR != "" {
		merged.BMR = override.BMR
	}
	if override.BodyFat != "" {
		merged.BodyFat = override.BodyFat
	}
	if override.FatBreakdown != "" {
		merged.FatBreakdown = override.FatBreakdown
	}
	if override.Mineral != "" {
		merged.Mineral = override.Mineral
	}
	if override.Vitamin != "" {
		merged.Vitamin = override.Vitamin
	}
	if override.Sugar != "" {
		merged.Sugar = override.Sugar
	}
	return merged
}

// writeEngineError maps the engine's error taxonomy onto problem responses:
// invariant violations are 422, bad configuration and unknown algorithm
// identifiers are 400, anything else is a 500.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, goal.ErrInvariantViolation):
		response.InvariantViolation(w, r, err.Error())
	case errors.Is(err, goal.ErrConfigOutOfRange), errors.Is(err, algorithm.ErrUnknownAlgorithm):
		response.BadRequest(w, r, err.Error(), nil)
	default:
		response.InternalError(w, r, "computation failed")
	}
}
