package repository

import (
	"testing"
	"time"
)

func TestReconnectDelay_Growth(t *testing.T) {
	tests := []struct {
		attempt int
		base    time.Duration
	}{
		{-1, 500 * time.Millisecond},
		{0, 500 * time.Millisecond},
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 5 * time.Second},
		{50, 5 * time.Second},
	}

	for _, tt := range tests {
		minDelay := time.Duration(float64(tt.base) * (1 - JitterFactor))
		maxDelay := time.Duration(float64(tt.base) * (1 + JitterFactor))

		for i := 0; i < 50; i++ {
			got := ReconnectDelay(tt.attempt)
			if got < minDelay || got > maxDelay {
				t.Fatalf("attempt %d: delay %v outside [%v, %v]", tt.attempt, got, minDelay, maxDelay)
			}
		}
	}
}

func TestReconnectDelay_HasJitter(t *testing.T) {
	seen := make(map[time.Duration]struct{})
	for i := 0; i < 20; i++ {
		seen[ReconnectDelay(2)] = struct{}{}
	}
	if len(seen) < 2 {
		t.Error("expected jittered delays to vary")
	}
}
