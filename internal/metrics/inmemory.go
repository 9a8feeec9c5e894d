package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Registrations           uint64
	RegistrationConflicts   uint64
	PasswordLoginSuccesses  uint64
	PasswordLoginRejects    uint64
	FederatedLoginSuccesses uint64
	FederatedLoginRejects   uint64
	TokensIssued            uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	registrations           uint64
	registrationConflicts   uint64
	passwordLoginSuccesses  uint64
	passwordLoginRejects    uint64
	federatedLoginSuccesses uint64
	federatedLoginRejects   uint64
	tokensIssued            uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		Registrations:           atomic.LoadUint64(&m.registrations),
		RegistrationConflicts:   atomic.LoadUint64(&m.registrationConflicts),
		PasswordLoginSuccesses:  atomic.LoadUint64(&m.passwordLoginSuccesses),
		PasswordLoginRejects:    atomic.LoadUint64(&m.passwordLoginRejects),
		FederatedLoginSuccesses: atomic.LoadUint64(&m.federatedLoginSuccesses),
		FederatedLoginRejects:   atomic.LoadUint64(&m.federatedLoginRejects),
		TokensIssued:            atomic.LoadUint64(&m.tokensIssued),
	}
}

// IncRegistration increments the registration counter.
func (m *InMemoryRecorder) IncRegistration() {
	atomic.AddUint64(&m.registrations, 1)
}

// IncRegistrationConflict increments the duplicate-email counter.
func (m *InMemoryRecorder) IncRegistrationConflict() {
	atomic.AddUint64(&m.registrationConflicts, 1)
}

// IncPasswordLogin increments the password login counter for a status.
func (m *InMemoryRecorder) IncPasswordLogin(status string) {
	if status == StatusSuccess {
		atomic.AddUint64(&m.passwordLoginSuccesses, 1)
	} else {
		atomic.AddUint64(&m.passwordLoginRejects, 1)
	}
}

// IncFederatedLogin increments the federated login counter for a status.
func (m *InMemoryRecorder) IncFederatedLogin(status string) {
	if status == StatusSuccess {
		atomic.AddUint64(&m.federatedLoginSuccesses, 1)
	} else {
		atomic.AddUint64(&m.federatedLoginRejects, 1)
	}
}

// IncTokenIssued increments the issued-token counter.
func (m *InMemoryRecorder) IncTokenIssued() {
	atomic.AddUint64(&m.tokensIssued, 1)
}
