package domain

// Health is the status snapshot served to operators.
type Health struct {
	Status       string        `json:"status"`
	Version      string        `json:"version"`
	Session      string        `json:"session,omitempty"`
	Sessions     int           `json:"sessions"`
	Driver       *DriverRecord `json:"driver,omitempty"`
	ShuttingDown bool          `json:"shutting_down"`
}

// Health statuses.
const (
	HealthOK       = "ok"
	HealthStopping = "stopping"
)
