package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return NoopRecorder{}
}

func (NoopRecorder) IncRegistration()                {}
func (NoopRecorder) IncRegistrationConflict()        {}
func (NoopRecorder) IncPasswordLogin(status string)  {}
func (NoopRecorder) IncFederatedLogin(status string) {}
func (NoopRecorder) IncTokenIssued()                 {}
