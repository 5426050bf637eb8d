package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRedirect is a no-op.
func (n *NoopRecorder) IncRedirect(outcome string) {}

// ObserveRedirectDuration is a no-op.
func (n *NoopRecorder) ObserveRedirectDuration(duration time.Duration) {}

// IncLinkCreated is a no-op.
func (n *NoopRecorder) IncLinkCreated() {}

// IncShortCodeCollision is a no-op.
func (n *NoopRecorder) IncShortCodeCollision() {}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(outcome string) {}

// IncPasswordChanged is a no-op.
func (n *NoopRecorder) IncPasswordChanged() {}

// SetStoreReady is a no-op.
func (n *NoopRecorder) SetStoreReady(ready bool) {}
