package ratelimit

import (
	"sync"
	"time"
)

// Window describes a sliding-window budget: at most Max requests inside any
// span of Per.
type Window struct {
	Max int
	Per time.Duration
}

// Limiter enforces a sliding-window budget per identifier. Each identifier
// keeps the timestamps of its admitted requests; timestamps older than the
// window are pruned on every check. Denied requests are not recorded, so a
// caller being throttled does not extend its own penalty.
type Limiter struct {
	window Window
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
}

// New creates a limiter using the wall clock.
func New(window Window) *Limiter {
	return NewWithClock(window, time.Now)
}

// NewWithClock creates a limiter with an injected clock.
func NewWithClock(window Window, now func() time.Time) *Limiter {
	return &Limiter{
		window: window,
		now:    now,
		hits:   make(map[string][]time.Time),
	}
}

// Allow reports whether id may make a request now, recording it if admitted.
func (l *Limiter) Allow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window.Per)

	recent := l.hits[id][:0]
	for _, ts := range l.hits[id] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.window.Max {
		l.hits[id] = recent
		return false
	}
	l.hits[id] = append(recent, now)
	return true
}

// RetryAfter returns how long id must wait before its next request can be
// admitted. Zero means a request would be admitted now.
func (l *Limiter) RetryAfter(id string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window.Per)

	recent := l.hits[id][:0]
	for _, ts := range l.hits[id] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	l.hits[id] = recent

	if len(recent) < l.window.Max {
		return 0
	}
	// The oldest recorded hit is the next to age out.
	return recent[0].Add(l.window.Per).Sub(now)
}

// Suite bundles the limiters applied to incoming traffic. A request must pass
// every limiter that applies to it.
type Suite struct {
	Global   *Limiter
	PerIP    *Limiter
	Login    *Limiter
	Register *Limiter
	Validate *Limiter
}

// SuiteConfig carries the windows for each limiter in a Suite.
type SuiteConfig struct {
	Global   Window
	PerIP    Window
	Login    Window
	Register Window
	Validate Window
}

// NewSuite builds a limiter suite using the wall clock.
func NewSuite(cfg SuiteConfig) *Suite {
	return NewSuiteWithClock(cfg, time.Now)
}

// NewSuiteWithClock builds a limiter suite with an injected clock.
func NewSuiteWithClock(cfg SuiteConfig, now func() time.Time) *Suite {
	return &Suite{
		Global:   NewWithClock(cfg.Global, now),
		PerIP:    NewWithClock(cfg.PerIP, now),
		Login:    NewWithClock(cfg.Login, now),
		Register: NewWithClock(cfg.Register, now),
		Validate: NewWithClock(cfg.Validate, now),
	}
}

// ForPath returns the route-specific limiter for path, or nil when only the
// global and per-IP limiters apply.
func (s *Suite) ForPath(path string) *Limiter {
	switch path {
	case "/auth/login":
		return s.Login
	case "/auth/register":
		return s.Register
	case "/auth/validate-token":
		return s.Validate
	default:
		return nil
	}
}
