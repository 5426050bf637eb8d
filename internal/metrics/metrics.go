// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Redirect outcomes.
const (
	RedirectFound    = "found"
	RedirectNotFound = "not_found"
)

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginUnknownEmail       = "unknown_email"
	LoginInvalidCredentials = "invalid_credentials"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Redirect metrics
	IncRedirect(outcome string)
	ObserveRedirectDuration(duration time.Duration)

	// Link management metrics
	IncLinkCreated()
	IncShortCodeCollision()

	// Account metrics
	IncSignup()
	IncLogin(outcome string)
	IncPasswordChanged()

	// Store health
	SetStoreReady(ready bool)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
