// Package preferences stores per-user engine configuration: algorithm
// selection, diet template or custom macro split, the daily calorie
// adjustment policy, display units, and water/exercise defaults.
package preferences

import (
	"errors"
	"fmt"
	"time"

	"github.com/kcalplan/kcalplan/internal/goal"
	"github.com/kcalplan/kcalplan/pkg/units"
)

// ErrNotFound is returned when a user has no stored preferences.
var ErrNotFound = errors.New("preferences not found")

// Preferences is the stored per-user engine configuration. Everything the
// engine consumes is plain data; display units are kept here but only the
// API layer converts with them.
type Preferences struct {
	UserID string `json:"userId"`

	Selection goal.AlgorithmSelection `json:"selection"`

	// PrimaryGoal drives the calorie budget direction for background
	// refreshes; API calls may override it per request.
	PrimaryGoal goal.PrimaryGoal `json:"primaryGoal"`

	// Template selects a preset macro split; CustomSplit applies only when
	// Template is "custom".
	Template    goal.DietTemplate `json:"template"`
	CustomSplit *goal.MacroSplit  `json:"customSplit,omitempty"`

	Adjustment goal.CalorieAdjustmentConfig `json:"adjustment"`

	DisplayWeightUnit string `json:"displayWeightUnit"`
	DisplayEnergyUnit string `json:"displayEnergyUnit"`

	WaterGoalMl      float64 `json:"waterGoalMl"`
	ExerciseMinutes  float64 `json:"exerciseMinutes"`
	ExerciseCalories float64 `json:"exerciseCalories"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Default returns the preferences applied to users who have never saved any.
func Default(userID string) *Preferences {
	return &Preferences{
		UserID:            userID,
		Selection:         goal.DefaultAlgorithmSelection(),
		PrimaryGoal:       goal.GoalMaintain,
		Template:          goal.TemplateBalanced,
		Adjustment:        goal.CalorieAdjustmentConfig{Mode: goal.AdjustDynamic},
		DisplayWeightUnit: "kg",
		DisplayEnergyUnit: "kcal",
	}
}

// Split resolves the active macro split: the template preset, or the
// custom triple when the template is "custom". Falls back to the balanced
// preset when a custom split is selected but absent.
func (p *Preferences) Split() goal.MacroSplit {
	if p.Template == goal.TemplateCustom {
		if p.CustomSplit != nil {
			return *p.CustomSplit
		}
	} else if split, ok := goal.TemplateSplit(p.Template); ok {
		return split
	}
	split, _ := goal.TemplateSplit(goal.TemplateBalanced)
	return split
}

// Validate checks stored configuration at the boundary, per the engine's
// error taxonomy: out-of-range adjustment config is recoverable (Clamp),
// but a malformed custom split is an invariant violation and is rejected.
func (p *Preferences) Validate() error {
	if p.UserID == "" {
		return errors.New("user id is required")
	}
	if p.Adjustment.EarnBackPct < 0 || p.Adjustment.EarnBackPct > 100 {
		return fmt.Errorf("%w: earn-back percentage %v outside [0,100]",
			goal.ErrConfigOutOfRange, p.Adjustment.EarnBackPct)
	}
	if p.Adjustment.ExerciseCalorieGoal < 0 {
		return fmt.Errorf("%w: exercise calorie goal %v is negative",
			goal.ErrConfigOutOfRange, p.Adjustment.ExerciseCalorieGoal)
	}
	if p.Adjustment.Mode != "" && !validMode(p.Adjustment.Mode) {
		return fmt.Errorf("%w: adjustment mode %q", goal.ErrConfigOutOfRange, p.Adjustment.Mode)
	}
	if p.PrimaryGoal != "" && !validGoal(p.PrimaryGoal) {
		return fmt.Errorf("%w: primary goal %q", goal.ErrConfigOutOfRange, p.PrimaryGoal)
	}
	if p.Template == goal.TemplateCustom && p.CustomSplit != nil {
		if err := p.CustomSplit.Validate(); err != nil {
			return err
		}
	}
	if _, ok := goal.TemplateSplit(p.Template); !ok && p.Template != goal.TemplateCustom {
		return fmt.Errorf("%w: diet template %q", goal.ErrConfigOutOfRange, p.Template)
	}
	if p.DisplayWeightUnit != "" {
		if kind, err := units.KindOf(p.DisplayWeightUnit); err != nil || kind != units.KindWeight {
			return fmt.Errorf("%w: display weight unit %q", goal.ErrConfigOutOfRange, p.DisplayWeightUnit)
		}
	}
	if p.DisplayEnergyUnit != "" {
		if kind, err := units.KindOf(p.DisplayEnergyUnit); err != nil || kind != units.KindEnergy {
			return fmt.Errorf("%w: display energy unit %q", goal.ErrConfigOutOfRange, p.DisplayEnergyUnit)
		}
	}
	return nil
}

func validMode(m goal.AdjustmentMode) bool {
	for _, mode := range goal.AdjustmentModes() {
		if m == mode {
			return true
		}
	}
	return false
}

func validGoal(g goal.PrimaryGoal) bool {
	for _, pg := range goal.PrimaryGoals() {
		if g == pg {
			return true
		}
	}
	return false
}

// Clamp pulls recoverable out-of-range values back into their valid
// ranges and fills empty display units, returning the names of the fields
// it touched. Invariant violations are not clamped; see Validate.
func (p *Preferences) Clamp() []string {
	var adjusted []string
	if p.Adjustment.EarnBackPct < 0 {
		p.Adjustment.EarnBackPct = 0
		adjusted = append(adjusted, "adjustment.earnBackPct")
	}
	if p.Adjustment.EarnBackPct > 100 {
		p.Adjustment.EarnBackPct = 100
		adjusted = append(adjusted, "adjustment.earnBackPct")
	}
	if p.Adjustment.ExerciseCalorieGoal < 0 {
		p.Adjustment.ExerciseCalorieGoal = 0
		adjusted = append(adjusted, "adjustment.exerciseCalorieGoal")
	}
	if p.Adjustment.Mode == "" {
		p.Adjustment.Mode = goal.AdjustDynamic
		adjusted = append(adjusted, "adjustment.mode")
	}
	if p.PrimaryGoal == "" {
		p.PrimaryGoal = goal.GoalMaintain
		adjusted = append(adjusted, "primaryGoal")
	}
	if p.DisplayWeightUnit == "" {
		p.DisplayWeightUnit = "kg"
		adjusted = append(adjusted, "displayWeightUnit")
	}
	if p.DisplayEnergyUnit == "" {
		p.DisplayEnergyUnit = "kcal"
		adjusted = append(adjusted, "displayEnergyUnit")
	}
	return adjusted
}
