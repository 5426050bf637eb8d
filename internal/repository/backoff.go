package repository

import (
	"math/rand"
	"time"
)

const (
	// ReconnectBaseDelay is the wait after the first failed attempt.
	ReconnectBaseDelay = 500 * time.Millisecond
	// ReconnectMaxDelay caps the wait between attempts.
	ReconnectMaxDelay = 5 * time.Second
	// JitterFactor is the ±percentage of jitter applied to delays.
	JitterFactor = 0.2
)

// ReconnectDelay returns the wait before the next connection attempt.
// attempt is 0-indexed; the base doubles each time up to ReconnectMaxDelay.
func ReconnectDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	base := ReconnectBaseDelay
	for i := 0; i < attempt && base < ReconnectMaxDelay; i++ {
		base *= 2
	}
	if base > ReconnectMaxDelay {
		base = ReconnectMaxDelay
	}

	// ±20% so a fleet of restarting replicas does not reconnect in lockstep
	jitterRange := float64(base) * JitterFactor
	jitter := (rand.Float64()*2 - 1) * jitterRange

	return time.Duration(float64(base) + jitter)
}
