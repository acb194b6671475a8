package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tasknest/internal/infrastructure/ratelimit"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestAllowExactBudget(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	l := ratelimit.NewWithClock(ratelimit.Window{Max: 3, Per: time.Minute}, clock.now)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("client-a"), "request %d within budget", i+1)
	}
	assert.False(t, l.Allow("client-a"), "request past budget")
}

func TestWindowSlides(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	l := ratelimit.NewWithClock(ratelimit.Window{Max: 2, Per: time.Minute}, clock.now)

	assert.True(t, l.Allow("c"))
	clock.advance(30 * time.Second)
	assert.True(t, l.Allow("c"))
	assert.False(t, l.Allow("c"))

	// The first hit ages out after a full window.
	clock.advance(31 * time.Second)
	assert.True(t, l.Allow("c"))
	assert.False(t, l.Allow("c"))
}

func TestDeniedRequestsDoNotExtendPenalty(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	l := ratelimit.NewWithClock(ratelimit.Window{Max: 1, Per: time.Minute}, clock.now)

	assert.True(t, l.Allow("c"))
	for i := 0; i < 10; i++ {
		clock.advance(5 * time.Second)
		assert.False(t, l.Allow("c"))
	}
	// 61s after the single admitted hit, the budget is free again even though
	// denials kept arriving in between.
	clock.advance(11 * time.Second)
	assert.True(t, l.Allow("c"))
}

func TestIdentifiersAreIndependent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	l := ratelimit.NewWithClock(ratelimit.Window{Max: 1, Per: time.Minute}, clock.now)

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}

func TestRetryAfter(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	l := ratelimit.NewWithClock(ratelimit.Window{Max: 1, Per: time.Minute}, clock.now)

	assert.Equal(t, time.Duration(0), l.RetryAfter("c"))
	assert.True(t, l.Allow("c"))
	assert.Equal(t, time.Minute, l.RetryAfter("c"))

	clock.advance(40 * time.Second)
	assert.Equal(t, 20*time.Second, l.RetryAfter("c"))

	clock.advance(21 * time.Second)
	assert.Equal(t, time.Duration(0), l.RetryAfter("c"))
}

func TestSuiteForPath(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	s := ratelimit.NewSuiteWithClock(ratelimit.SuiteConfig{
		Global:   ratelimit.Window{Max: 100, Per: time.Hour},
		PerIP:    ratelimit.Window{Max: 20, Per: time.Minute},
		Login:    ratelimit.Window{Max: 20, Per: 5 * time.Minute},
		Register: ratelimit.Window{Max: 10, Per: time.Hour},
		Validate: ratelimit.Window{Max: 60, Per: time.Minute},
	}, clock.now)

	assert.Same(t, s.Login, s.ForPath("/auth/login"))
	assert.Same(t, s.Register, s.ForPath("/auth/register"))
	assert.Same(t, s.Validate, s.ForPath("/auth/validate-token"))
	assert.Nil(t, s.ForPath("/api/123/tasks"))
}

func TestConcurrentAllow(t *testing.T) {
	l := ratelimit.New(ratelimit.Window{Max: 50, Per: time.Minute})

	done := make(chan int)
	for i := 0; i < 10; i++ {
		go func() {
			admitted := 0
			for j := 0; j < 10; j++ {
				if l.Allow("shared") {
					admitted++
				}
			}
			done <- admitted
		}()
	}

	total := 0
	for i := 0; i < 10; i++ {
		total += <-done
	}
	assert.Equal(t, 50, total, "exactly the budget is admitted under contention")
}
