package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock drives the limiter's notion of time from the test.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestRecipientLimiter_AllowsUpToWindowLimit(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewRecipientLimiter(3, time.Hour, time.Hour, clock.Now)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("alice@example.com"), "send %d is inside the window", i)
	}
	assert.False(t, limiter.Allow("alice@example.com"), "the fourth send breaches the limit")

	// Other recipients are unaffected.
	assert.True(t, limiter.Allow("bob@example.com"))
}

func TestRecipientLimiter_WindowRolls(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewRecipientLimiter(2, time.Hour, time.Hour, clock.Now)

	assert.True(t, limiter.Allow("alice@example.com"))
	clock.advance(45 * time.Minute)
	assert.True(t, limiter.Allow("alice@example.com"))

	// 61 minutes after the first send it has rolled out of the window.
	clock.advance(16 * time.Minute)
	assert.True(t, limiter.Allow("alice@example.com"))
}

func TestRecipientLimiter_LockoutAfterBreach(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewRecipientLimiter(1, 10*time.Minute, time.Hour, clock.Now)

	assert.True(t, limiter.Allow("alice@example.com"))
	assert.False(t, limiter.Allow("alice@example.com"), "breach starts the lockout")

	// Even after the window has passed, the lockout holds.
	clock.advance(30 * time.Minute)
	assert.False(t, limiter.Allow("alice@example.com"))

	// Once the lockout ends the slate is clean.
	clock.advance(31 * time.Minute)
	assert.True(t, limiter.Allow("alice@example.com"))
}

func TestRecipientLimiter_DefaultsArePermissive(t *testing.T) {
	limiter := NewRecipientLimiter(0, 0, 0, nil)

	assert.True(t, limiter.Allow("alice@example.com"))
}
