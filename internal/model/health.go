package model

// HealthReport is the structured result of a store health check. Health
// checks never return an error; failures are reported in Status and Error.
type HealthReport struct {
	Status           string `json:"status"`
	TestPassed       bool   `json:"testPassed"`
	ConnectedClients string `json:"connectedClients,omitempty"`
	UsedMemory       string `json:"usedMemory,omitempty"`
	UptimeSeconds    string `json:"uptimeSeconds,omitempty"`
	Database         string `json:"database,omitempty"`
	Error            string `json:"error,omitempty"`
}

const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
)

// KeyCensus reports the number of live keys per cache namespace. It is a
// read-only snapshot; key expiry itself is left to the engine's TTLs.
type KeyCensus struct {
	SessionsActive int `json:"sessionsActive"`
	ContextsActive int `json:"contextsActive"`
	TempActive     int `json:"tempActive"`
}
