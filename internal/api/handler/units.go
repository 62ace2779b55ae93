package handler

import (
	"net/http"
	"strconv"

	"github.com/kcalplan/kcalplan/internal/api/models"
	"github.com/kcalplan/kcalplan/internal/api/response"
	"github.com/kcalplan/kcalplan/pkg/units"
)

// UnitsHandler handles unit conversion endpoints.
type UnitsHandler struct{}

// NewUnitsHandler creates a new UnitsHandler.
func NewUnitsHandler() *UnitsHandler {
	return &UnitsHandler{}
}

// Convert handles GET /v1/units:convert?value=&from=&to= - convert a value
// between units of the same kind.
func (h *UnitsHandler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	value, err := strconv.ParseFloat(q.Get("value"), 64)
	if err != nil {
		response.BadRequest(w, r, "value must be a number", []models.FieldError{
			{Field: "value", Message: "must be a number"},
		})
		return
	}

	from, to := q.Get("from"), q.Get("to")
	converted, err := units.Convert(value, from, to)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	// Both units share a kind or Convert would have failed.
	kind, _ := units.KindOf(from)

	response.JSON(w, r, http.StatusOK, models.UnitConversionResponse{
		Value:     converted,
		Unit:      to,
		FromValue: value,
		FromUnit:  from,
		Kind:      string(kind),
	})
}
