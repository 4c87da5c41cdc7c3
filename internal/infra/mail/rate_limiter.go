// Package mail implements the outbound transactional mail sender.
package mail

import (
	"sync"
	"time"
)

// RecipientLimiter throttles mail per recipient address: up to maxPerWindow
// sends inside a rolling window, after which the address is locked out for
// the lockout duration. The clock is injected so tests can drive time.
type RecipientLimiter struct {
	mu           sync.Mutex
	maxPerWindow int
	window       time.Duration
	lockout      time.Duration
	now          func() time.Time

	sends       map[string][]time.Time
	lockedUntil map[string]time.Time
}

// NewRecipientLimiter builds a limiter with the given policy. Non-positive
// values fall back to a permissive default.
func NewRecipientLimiter(maxPerWindow int, window, lockout time.Duration, now func() time.Time) *RecipientLimiter {
	if maxPerWindow <= 0 {
		maxPerWindow = 3
	}
	if window <= 0 {
		window = time.Hour
	}
	if lockout <= 0 {
		lockout = window
	}
	if now == nil {
		now = time.Now
	}

	return &RecipientLimiter{
		maxPerWindow: maxPerWindow,
		window:       window,
		lockout:      lockout,
		now:          now,
		sends:        make(map[string][]time.Time),
		lockedUntil:  make(map[string]time.Time),
	}
}

// Allow reports whether a mail to the address may be sent now and, if so,
// records the send. Crossing the per-window limit starts the lockout.
func (l *RecipientLimiter) Allow(address string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if until, locked := l.lockedUntil[address]; locked {
		if now.Before(until) {
			return false
		}
		delete(l.lockedUntil, address)
		delete(l.sends, address)
	}

	// Keep only sends still inside the rolling window.
	recent := l.sends[address][:0]
	for _, t := range l.sends[address] {
		if now.Sub(t) < l.window {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.maxPerWindow {
		l.lockedUntil[address] = now.Add(l.lockout)
		l.sends[address] = recent

		return false
	}

	l.sends[address] = append(recent, now)

	return true
}
