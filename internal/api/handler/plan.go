package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kcalplan/kcalplan/internal/api/models"
	"github.com/kcalplan/kcalplan/internal/api/response"
	"github.com/kcalplan/kcalplan/internal/goal"
	"github.com/kcalplan/kcalplan/internal/preferences"
)

// PlanHandler handles plan computation endpoints.
type PlanHandler struct {
	goals *goal.Service
	prefs *preferences.Service
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(goals *goal.Service, prefs *preferences.Service) *PlanHandler {
	return &PlanHandler{goals: goals, prefs: prefs}
}

// ComputePlan handles POST /v1/plans:compute - compute a full goal snapshot.
func (h *PlanHandler) ComputePlan(w http.ResponseWriter, r *http.Request) {
	var input models.PlanComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.Goal == "" {
		response.BadRequest(w, r, "goal is required", []models.FieldError{
			{Field: "goal", Message: "one of lose, maintain, gain"},
		})
		return
	}

	prefs, err := h.prefs.Resolve(r.Context(), input.UserID)
	if err != nil {
		response.InternalError(w, r, "loading preferences failed")
		return
	}

	plan, ready, err := h.goals.ComputePlan(goal.PlanInput{
		Profile:          toProfile(input.Profile),
		Primary:          goal.PrimaryGoal(input.Goal),
		Split:            resolveSplit(prefs, input.Template, input.CustomSplit),
		Selection:        mergeSelection(prefs.Selection, input.Selection),
		WaterGoalMl:      prefs.WaterGoalMl,
		ExerciseMinutes:  prefs.ExerciseMinutes,
		ExerciseCalories: prefs.ExerciseCalories,
	})
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	now := models.Timestamp(time.Now())
	if !ready {
		response.JSON(w, r, http.StatusOK, models.PlanComputeResponse{Ready: false, ComputedAt: now})
		return
	}

	snapshot := plan.Patch.ApplyTo(goal.GoalSnapshot{})
	response.JSON(w, r, http.StatusOK, models.PlanComputeResponse{
		Ready:      true,
		Budget:     &plan.Budget,
		BodyFatPct: &plan.BodyFatPct,
		Snapshot:   &snapshot,
		Categories: plan.Patch.Categories(),
		ComputedAt: now,
	})
}

// RecomputePlan handles POST /v1/plans:recompute - recompute only the
// categories owned by changed algorithm selections, merged over the
// previous snapshot so user edits elsewhere survive.
func (h *PlanHandler) RecomputePlan(w http.ResponseWriter, r *http.Request) {
	var input models.PlanRecomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if len(input.Changed) == 0 {
		response.BadRequest(w, r, "changed is required", []models.FieldError{
			{Field: "changed", Message: "at least one changed selection field"},
		})
		return
	}

	changed := make([]goal.SelectionField, 0, len(input.Changed))
	for _, name := range input.Changed {
		field := goal.SelectionField(name)
		if field != goal.SelectionBodyFat && len(goal.OwnedCategories(field)) == 0 {
			response.BadRequest(w, r, "unknown selection field: "+name, []models.FieldError{
				{Field: "changed", Message: "unknown selection field", Code: name},
			})
			return
		}
		changed = append(changed, field)
	}

	prefs, err := h.prefs.Resolve(r.Context(), input.UserID)
	if err != nil {
		response.InternalError(w, r, "loading preferences failed")
		return
	}

	plan, ready, err := h.goals.RecomputeForSelection(goal.PlanInput{
		Profile:          toProfile(input.Profile),
		Primary:          goal.PrimaryGoal(input.Goal),
		Split:            resolveSplit(prefs, input.Template, input.CustomSplit),
		Selection:        mergeSelection(prefs.Selection, &input.Selection),
		WaterGoalMl:      prefs.WaterGoalMl,
		ExerciseMinutes:  prefs.ExerciseMinutes,
		ExerciseCalories: prefs.ExerciseCalories,
	}, changed)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	now := models.Timestamp(time.Now())
	if !ready {
		response.JSON(w, r, http.StatusOK, models.PlanRecomputeResponse{Ready: false, ComputedAt: now})
		return
	}

	snapshot := plan.Patch.ApplyTo(input.PreviousSnapshot)
	response.JSON(w, r, http.StatusOK, models.PlanRecomputeResponse{
		Ready:      true,
		Snapshot:   &snapshot,
		Categories: plan.Patch.Categories(),
		ComputedAt: now,
	})
}
