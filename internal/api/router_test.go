package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcalplan/kcalplan/internal/api"
	"github.com/kcalplan/kcalplan/internal/api/models"
	"github.com/kcalplan/kcalplan/internal/goal"
	"github.com/kcalplan/kcalplan/internal/preferences"
)

func newTestRouter() http.Handler {
	logger := zerolog.New(io.Discard)
	return api.NewRouter(api.RouterConfig{
		Version:     "test",
		BuildTime:   "2026-01-01T00:00:00Z",
		Logger:      logger,
		GoalService: goal.NewService(goal.ServiceConfig{Logger: logger}),
		PrefsService: preferences.NewService(preferences.ServiceConfig{
			Repository: preferences.NewInMemoryRepository(),
			Logger:     logger,
		}),
	})
}

func testProfile() models.ProfilePayload {
	// A month past the 30th birthday, so the derived age is stable.
	return models.ProfilePayload{
		Sex:           "male",
		BirthDate:     models.Date(time.Now().AddDate(-30, -1, 0)),
		WeightKg:      80,
		HeightCm:      180,
		ActivityLevel: "moderate",
	}
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ComputePlan(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/plans:compute", models.PlanComputeRequest{
		UserID:  "u1",
		Profile: testProfile(),
		Goal:    "lose",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PlanComputeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.True(t, resp.Ready)
	require.NotNil(t, resp.Budget)
	require.NotNil(t, resp.Snapshot)
	assert.Equal(t, 1780.0, resp.Budget.BMR)
	assert.Equal(t, 2210.0, resp.Budget.DailyCalorieGoal)
	assert.Equal(t, 2210.0, resp.Snapshot.Calories)
	// Balanced template: 50/20/30.
	assert.Equal(t, 276.0, resp.Snapshot.CarbsG)
	assert.Equal(t, 111.0, resp.Snapshot.ProteinG)
	assert.Equal(t, 74.0, resp.Snapshot.FatG)
	assert.Len(t, resp.Categories, 8)
}

func TestRouter_ComputePlan_UnreadyProfile(t *testing.T) {
	router := newTestRouter()

	profile := testProfile()
	profile.WeightKg = 0

	w := postJSON(t, router, "/v1/plans:compute", models.PlanComputeRequest{
		UserID:  "u1",
		Profile: profile,
		Goal:    "maintain",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PlanComputeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Ready)
	assert.Nil(t, resp.Snapshot)
}

func TestRouter_ComputePlan_UnknownAlgorithm(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/plans:compute", models.PlanComputeRequest{
		UserID:  "u1",
		Profile: testProfile(),
		Goal:    "lose",
		Selection: &goal.AlgorithmSelection{
			BMR: "katch_mcardle",
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_RecomputePlan_PreservesOtherCategories(t *testing.T) {
	router := newTestRouter()

	prev := goal.GoalSnapshot{
		Calories: 2210, CarbsG: 276, ProteinG: 111, FatG: 74,
		SodiumMg: 1234, // user-edited
		WaterMl:  3000, // user-edited
	}

	selection := goal.DefaultAlgorithmSelection()
	selection.Mineral = "who"

	w := postJSON(t, router, "/v1/plans:recompute", models.PlanRecomputeRequest{
		UserID:           "u1",
		Profile:          testProfile(),
		Goal:             "lose",
		Selection:        selection,
		Changed:          []string{"mineral"},
		PreviousSnapshot: prev,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PlanRecomputeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Ready)
	require.NotNil(t, resp.Snapshot)

	// Minerals replaced per WHO guidance, everything else untouched.
	assert.Equal(t, 2000.0, resp.Snapshot.SodiumMg)
	assert.Equal(t, 3000.0, resp.Snapshot.WaterMl)
	assert.Equal(t, 2210.0, resp.Snapshot.Calories)
	assert.Equal(t, []goal.Category{goal.CategoryMinerals}, resp.Categories)
}

func TestRouter_RecomputePlan_UnknownField(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/plans:recompute", models.PlanRecomputeRequest{
		UserID:           "u1",
		Profile:          testProfile(),
		Goal:             "lose",
		Selection:        goal.DefaultAlgorithmSelection(),
		Changed:          []string{"macro_split"},
		PreviousSnapshot: goal.GoalSnapshot{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RemainingBudget(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/budget:remaining", models.BudgetRemainingRequest{
		UserID:  "u1",
		Profile: testProfile(),
		Goal:    "lose",
		Record: &models.ActivityRecordPayload{
			EatenKcal:  1500,
			BurnedKcal: 400,
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BudgetRemainingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Ready)
	assert.Equal(t, goal.AdjustDynamic, resp.Mode)
	assert.Equal(t, 2210.0, resp.DailyGoal)
	// dynamic: goal + burned - eaten
	assert.Equal(t, 1110.0, resp.RemainingKcal)
	assert.False(t, resp.DeviceDataUsed)
}

func TestRouter_RebalanceMacros(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/macros:rebalance", models.MacroRebalanceRequest{
		Split: goal.MacroSplit{CarbsPct: 50, ProteinPct: 20, FatPct: 30},
		Moved: "carbs",
		Value: 40,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.MacroRebalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40.0, resp.Split.CarbsPct)
	assert.Equal(t, 24.0, resp.Split.ProteinPct)
	assert.Equal(t, 36.0, resp.Split.FatPct)
	assert.Equal(t, 100.0, resp.Split.Sum())
}

func TestRouter_RebalanceMacros_OutOfRange(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/macros:rebalance", models.MacroRebalanceRequest{
		Split: goal.MacroSplit{CarbsPct: 50, ProteinPct: 20, FatPct: 30},
		Moved: "carbs",
		Value: 140,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ConvertUnits(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/units:convert?value=80&from=kg&to=lb", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.UnitConversionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 176.37, resp.Value, 0.01)
	assert.Equal(t, "lb", resp.Unit)
	assert.Equal(t, "weight", resp.Kind)
}

func TestRouter_ConvertUnits_KindMismatch(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/units:convert?value=80&from=kg&to=kcal", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_PreferencesRoundTrip(t *testing.T) {
	router := newTestRouter()

	// Defaults for a user who never saved.
	req := httptest.NewRequest(http.MethodGet, "/v1/users/u1/preferences", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var prefs preferences.Preferences
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefs))
	assert.Equal(t, goal.TemplateBalanced, prefs.Template)

	// Save keto with percentage adjustment.
	prefs.Template = goal.TemplateKeto
	prefs.Adjustment = goal.CalorieAdjustmentConfig{Mode: goal.AdjustPercentage, EarnBackPct: 50}
	payload, err := json.Marshal(&prefs)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPut, "/v1/users/u1/preferences", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Read back.
	req = httptest.NewRequest(http.MethodGet, "/v1/users/u1/preferences", http.NoBody)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var saved preferences.Preferences
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, goal.TemplateKeto, saved.Template)
	assert.Equal(t, goal.AdjustPercentage, saved.Adjustment.Mode)

	// Delete reverts to defaults.
	req = httptest.NewRequest(http.MethodDelete, "/v1/users/u1/preferences", http.NoBody)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_PreferencesRejectBadSplit(t *testing.T) {
	router := newTestRouter()

	prefs := preferences.Default("u1")
	prefs.Template = goal.TemplateCustom
	prefs.CustomSplit = &goal.MacroSplit{CarbsPct: 50, ProteinPct: 30, FatPct: 30}
	payload, err := json.Marshal(prefs)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/v1/users/u1/preferences", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_Enums(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/enums", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var enums models.Enums
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &enums))
	assert.Contains(t, enums.DietTemplates, "keto")
	assert.Contains(t, enums.AdjustmentModes, "device_projection")
	assert.Contains(t, enums.Algorithms.BMR, "mifflin_st_jeor")
	assert.Contains(t, enums.Units["weight"], "lb")
}

func TestRouter_RequireJSONBody(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/plans:compute", bytes.NewReader([]byte("value=1")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}
