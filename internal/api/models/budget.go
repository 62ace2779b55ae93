package models

import "github.com/kcalplan/kcalplan/internal/goal"

// ActivityRecordPayload is the measured side of a day. PartialBurnKcal and
// ElapsedDayFraction matter only in device-projection mode.
type ActivityRecordPayload struct {
	EatenKcal          float64 `json:"eatenKcal"`
	BurnedKcal         float64 `json:"burnedKcal"`
	PartialBurnKcal    float64 `json:"partialBurnKcal,omitempty"`
	ElapsedDayFraction float64 `json:"elapsedDayFraction,omitempty"`
}

// BudgetRemainingRequest is the input for POST /v1/budget:remaining.
// Record is optional; when absent and the user's adjustment mode needs device
// data, the day's summary is fetched from the telemetry provider.
type BudgetRemainingRequest struct {
	UserID  string         `json:"userId"`
	Profile ProfilePayload `json:"profile"`
	Goal    string         `json:"goal"`
	Date    *Date          `json:"date,omitempty"`

	Record *ActivityRecordPayload `json:"record,omitempty"`
}

// BudgetRemainingResponse is the output of POST /v1/budget:remaining.
type BudgetRemainingResponse struct {
	Ready          bool                `json:"ready"`
	Mode           goal.AdjustmentMode `json:"mode"`
	DailyGoal      float64             `json:"dailyGoal"`
	RemainingKcal  float64             `json:"remainingKcal"`
	DeviceDataUsed bool                `json:"deviceDataUsed"`
}
