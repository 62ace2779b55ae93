package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kcalplan/kcalplan/internal/api/response"
	"github.com/kcalplan/kcalplan/internal/preferences"
)

// PreferencesHandler handles per-user preference endpoints.
type PreferencesHandler struct {
	prefs *preferences.Service
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(prefs *preferences.Service) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

// GetPreferences handles GET /v1/users/{userId}/preferences.
// Users who never saved preferences get the defaults, not a 404.
func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	prefs, err := h.prefs.Resolve(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "loading preferences failed")
		return
	}

	response.JSON(w, r, http.StatusOK, prefs)
}

// UpsertPreferences handles PUT /v1/users/{userId}/preferences.
func (h *PreferencesHandler) UpsertPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var input preferences.Preferences
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	input.UserID = userID

	if err := h.prefs.Save(r.Context(), &input); err != nil {
		writeEngineError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, &input)
}

// DeletePreferences handles DELETE /v1/users/{userId}/preferences - revert
// the user to system defaults.
func (h *PreferencesHandler) DeletePreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := h.prefs.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, preferences.ErrNotFound) {
			response.NotFound(w, r, "no stored preferences for user")
			return
		}
		response.InternalError(w, r, "deleting preferences failed")
		return
	}

	response.NoContent(w, r)
}
