package models

import "github.com/kcalplan/kcalplan/internal/goal"

// MacroRebalanceRequest is the input for POST /v1/macros:rebalance. Moved
// names the percentage the user changed; the other two absorb the remainder
// proportionally.
type MacroRebalanceRequest struct {
	Split goal.MacroSplit `json:"split"`
	Moved string          `json:"moved"`
	Value float64         `json:"value"`
}

// MacroRebalanceResponse is the output of POST /v1/macros:rebalance.
type MacroRebalanceResponse struct {
	Split goal.MacroSplit `json:"split"`
}
