// Package clocktest is meant to be used to test drivers using fake timers.
package clocktest

import (
	"errors"
	"sync"
	"time"

	"github.com/flavioheleno/sevenseg/clock"
)

// Timer is a clock.Timer that only fires when told to.
type Timer struct {
	mu     sync.Mutex
	period time.Duration
	fn     func()
	arms   int
}

var _ clock.Timer = &Timer{}

// Arm implements clock.Timer.
func (t *Timer) Arm(period time.Duration, fn func()) error {
	if period <= 0 {
		return errors.New("clocktest: period must be positive")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.period = period
	t.fn = fn
	t.arms++
	return nil
}

// Disarm implements clock.Timer.
func (t *Timer) Disarm() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.period = 0
	t.fn = nil
	return nil
}

// Armed reports whether the timer is armed.
func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fn != nil
}

// Period returns the armed period, or 0 when disarmed.
func (t *Timer) Period() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period
}

// Arms returns how many times Arm was called.
func (t *Timer) Arms() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.arms
}

// Fire calls the armed handler once. It returns false when disarmed.
func (t *Timer) Fire() bool {
	t.mu.Lock()
	fn := t.fn
	t.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// FireN calls Fire n times.
func (t *Timer) FireN(n int) {
	for i := 0; i < n; i++ {
		t.Fire()
	}
}

// Timers returns one Timer per known source, both as the map expected by
// clock.NewScheduler and keyed for direct access.
func Timers() (map[clock.Source]clock.Timer, map[clock.Source]*Timer) {
	m := map[clock.Source]clock.Timer{}
	f := map[clock.Source]*Timer{}
	for _, s := range clock.Sources() {
		t := &Timer{}
		m[s] = t
		f[s] = t
	}
	return m, f
}
