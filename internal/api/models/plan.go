package models

import (
	"github.com/kcalplan/kcalplan/internal/goal"
)

// ProfilePayload carries measurement inputs, already normalized to metric.
type ProfilePayload struct {
	Sex           string  `json:"sex"`
	BirthDate     Date    `json:"birthDate"`
	WeightKg      float64 `json:"weightKg"`
	HeightCm      float64 `json:"heightCm"`
	ActivityLevel string  `json:"activityLevel"`
}

// PlanComputeRequest is the input for POST /v1/plans:compute.
// Preference fields are optional overrides; when absent, the user's stored
// preferences (or system defaults) apply.
type PlanComputeRequest struct {
	UserID  string         `json:"userId"`
	Profile ProfilePayload `json:"profile"`
	Goal    string         `json:"goal"`

	Template    *string                  `json:"template,omitempty"`
	CustomSplit *goal.MacroSplit         `json:"customSplit,omitempty"`
	Selection   *goal.AlgorithmSelection `json:"selection,omitempty"`
}

// PlanComputeResponse is the output of POST /v1/plans:compute.
type PlanComputeResponse struct {
	Ready      bool              `json:"ready"`
	Budget     *goal.EnergyBudget `json:"budget,omitempty"`
	BodyFatPct *float64          `json:"bodyFatPct,omitempty"`
	Snapshot   *goal.GoalSnapshot `json:"snapshot,omitempty"`
	Categories []goal.Category   `json:"categories,omitempty"`
	ComputedAt Timestamp         `json:"computedAt"`
}

// PlanRecomputeRequest is the input for POST /v1/plans:recompute. Changed
// names the selection fields whose algorithm changed; only the categories
// they own are recomputed and merged over the previous snapshot, so edits
// in other categories survive.
type PlanRecomputeRequest struct {
	UserID  string         `json:"userId"`
	Profile ProfilePayload `json:"profile"`
	Goal    string         `json:"goal"`

	Selection        goal.AlgorithmSelection `json:"selection"`
	Changed          []string                `json:"changed"`
	PreviousSnapshot goal.GoalSnapshot       `json:"previousSnapshot"`

	Template    *string          `json:"template,omitempty"`
	CustomSplit *goal.MacroSplit `json:"customSplit,omitempty"`
}

// PlanRecomputeResponse is the output of POST /v1/plans:recompute.
type PlanRecomputeResponse struct {
	Ready      bool               `json:"ready"`
	Snapshot   *goal.GoalSnapshot `json:"snapshot,omitempty"`
	Categories []goal.Category    `json:"categories,omitempty"`
	ComputedAt Timestamp          `json:"computedAt"`
}
