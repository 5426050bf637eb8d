package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Redirects               map[string]uint64
	RedirectDurationCount   uint64
	RedirectDurationTotalNs int64
	LinksCreated            uint64
	ShortCodeCollisions     uint64
	Signups                 uint64
	Logins                  map[string]uint64
	PasswordsChanged        uint64
	StoreReady              bool
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	redirectDurationCount   uint64
	redirectDurationTotalNs int64
	linksCreated            uint64
	shortCodeCollisions     uint64
	signups                 uint64
	passwordsChanged        uint64
	storeReady              atomic.Bool

	mu        sync.Mutex
	redirects map[string]uint64
	logins    map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		redirects: make(map[string]uint64),
		logins:    make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	redirects := make(map[string]uint64, len(m.redirects))
	for k, v := range m.redirects {
		redirects[k] = v
	}
	logins := make(map[string]uint64, len(m.logins))
	for k, v := range m.logins {
		logins[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		Redirects:               redirects,
		RedirectDurationCount:   atomic.LoadUint64(&m.redirectDurationCount),
		RedirectDurationTotalNs: atomic.LoadInt64(&m.redirectDurationTotalNs),
		LinksCreated:            atomic.LoadUint64(&m.linksCreated),
		ShortCodeCollisions:     atomic.LoadUint64(&m.shortCodeCollisions),
		Signups:                 atomic.LoadUint64(&m.signups),
		Logins:                  logins,
		PasswordsChanged:        atomic.LoadUint64(&m.passwordsChanged),
		StoreReady:              m.storeReady.Load(),
	}
}

// IncRedirect counts a redirect by outcome.
func (m *InMemoryRecorder) IncRedirect(outcome string) {
	m.mu.Lock()
	m.redirects[outcome]++
	m.mu.Unlock()
}

// ObserveRedirectDuration records redirect duration.
func (m *InMemoryRecorder) ObserveRedirectDuration(duration time.Duration) {
	atomic.AddUint64(&m.redirectDurationCount, 1)
	atomic.AddInt64(&m.redirectDurationTotalNs, duration.Nanoseconds())
}

// IncLinkCreated increments link created counter.
func (m *InMemoryRecorder) IncLinkCreated() {
	atomic.AddUint64(&m.linksCreated, 1)
}

// IncShortCodeCollision increments the regenerated short code counter.
func (m *InMemoryRecorder) IncShortCodeCollision() {
	atomic.AddUint64(&m.shortCodeCollisions, 1)
}

// IncSignup increments the signup counter.
func (m *InMemoryRecorder) IncSignup() {
	atomic.AddUint64(&m.signups, 1)
}

// IncLogin counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	m.mu.Lock()
	m.logins[outcome]++
	m.mu.Unlock()
}

// IncPasswordChanged increments the password change counter.
func (m *InMemoryRecorder) IncPasswordChanged() {
	atomic.AddUint64(&m.passwordsChanged, 1)
}

// SetStoreReady records the store readiness flag.
func (m *InMemoryRecorder) SetStoreReady(ready bool) {
	m.storeReady.Store(ready)
}
