package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kcalplan/kcalplan/internal/api/models"
	"github.com/kcalplan/kcalplan/internal/api/response"
	"github.com/kcalplan/kcalplan/internal/goal"
)

// MacroHandler handles macro split endpoints.
type MacroHandler struct{}

// NewMacroHandler creates a new MacroHandler.
func NewMacroHandler() *MacroHandler {
	return &MacroHandler{}
}

// Rebalance handles POST /v1/macros:rebalance - move one macro percentage
// and redistribute the remainder over the other two.
func (h *MacroHandler) Rebalance(w http.ResponseWriter, r *http.Request) {
	var input models.MacroRebalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	split, err := goal.Rebalance(input.Split, goal.MacroField(input.Moved), input.Value)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.MacroRebalanceResponse{Split: split})
}
