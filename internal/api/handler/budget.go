package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kcalplan/kcalplan/internal/api/models"
	"github.com/kcalplan/kcalplan/internal/api/response"
	"github.com/kcalplan/kcalplan/internal/device"
	"github.com/kcalplan/kcalplan/internal/goal"
	"github.com/kcalplan/kcalplan/internal/preferences"
)

// BudgetHandler handles the remaining-budget endpoint.
type BudgetHandler struct {
	goals   *goal.Service
	prefs   *preferences.Service
	devices *device.Service
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(goals *goal.Service, prefs *preferences.Service, devices *device.Service) *BudgetHandler {
	return &BudgetHandler{goals: goals, prefs: prefs, devices: devices}
}

// RemainingBudget handles POST /v1/budget:remaining - reconcile the daily
// calorie goal against measured intake and burn under the user's adjustment
// mode. When no activity record is supplied, the day's summary is fetched
// from the device telemetry provider.
func (h *BudgetHandler) RemainingBudget(w http.ResponseWriter, r *http.Request) {
	var input models.BudgetRemainingRequest
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

	budget, ready, err := goal.ComputeEnergyBudget(
		toProfile(input.Profile), prefs.Selection.BMR, goal.PrimaryGoal(input.Goal), time.Now())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	if !ready {
		response.JSON(w, r, http.StatusOK, models.BudgetRemainingResponse{
			Ready: false,
			Mode:  prefs.Adjustment.Mode,
		})
		return
	}

	record, deviceUsed, err := h.resolveRecord(r, &input)
	if err != nil {
		if errors.Is(err, device.ErrNoData) {
			response.NotFound(w, r, "no device data for the requested day")
			return
		}
		response.ServiceUnavailable(w, r, "device telemetry unavailable")
		return
	}

	remaining, err := h.goals.RemainingBudget(budget.DailyCalorieGoal, prefs.Adjustment, record, budget.TDEE)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.BudgetRemainingResponse{
		Ready:          true,
		Mode:           prefs.Adjustment.Mode,
		DailyGoal:      budget.DailyCalorieGoal,
		RemainingKcal:  remaining,
		DeviceDataUsed: deviceUsed,
	})
}

// resolveRecord prefers an explicit record from the request and otherwise
// pulls the user's summary for the day from the telemetry provider.
func (h *BudgetHandler) resolveRecord(r *http.Request, input *models.BudgetRemainingRequest) (goal.ActivityEnergyRecord, bool, error) {
	if input.Record != nil {
		return goal.ActivityEnergyRecord{
			EatenKcal:          input.Record.EatenKcal,
			BurnedKcal:         input.Record.BurnedKcal,
			PartialBurnKcal:    input.Record.PartialBurnKcal,
			ElapsedDayFraction: input.Record.ElapsedDayFraction,
		}, false, nil
	}

	day := time.Now()
	if input.Date != nil {
		day = input.Date.Time()
	}

	summary, err := h.devices.GetDailySummary(r.Context(), input.UserID, day)
	if err != nil {
		return goal.ActivityEnergyRecord{}, false, err
	}
	return summary.ActivityRecord(), true, nil
}
