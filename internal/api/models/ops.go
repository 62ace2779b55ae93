package models

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Readiness reports per-dependency readiness.
type Readiness struct {
	Status HealthStatus     `json:"status"`
	Time   Timestamp        `json:"time"`
	Checks []ReadinessCheck `json:"checks,omitempty"`
}

// ReadinessCheck is the readiness of one dependency.
type ReadinessCheck struct {
	Name   string       `json:"name"`
	Status HealthStatus `json:"status"`
	Detail string       `json:"detail,omitempty"`
}
