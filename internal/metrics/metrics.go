// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Registration metrics
	IncRegistration()
	IncRegistrationConflict()

	// Login metrics
	IncPasswordLogin(status string) // status: "success" or "rejected"
	IncFederatedLogin(status string)

	// Token metrics
	IncTokenIssued()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

// Login status values.
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
)
