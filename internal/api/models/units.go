package models

// UnitConversionResponse is the output of GET /v1/units:convert.
type UnitConversionResponse struct {
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	FromValue float64 `json:"fromValue"`
	FromUnit  string  `json:"fromUnit"`
	Kind      string  `json:"kind"`
}
