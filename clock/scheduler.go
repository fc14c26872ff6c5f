package clock

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"periph.io/x/conn/v3/physic"
)

var (
	// ErrSourceConflict is returned when the refresh source is also bound to
	// another role. Redraw and animation must run from independent sources.
	ErrSourceConflict = errors.New("clock: refresh source shared with another role")
	// ErrUnknownSource is returned for a source outside the known set.
	ErrUnknownSource = errors.New("clock: unknown source")
	// ErrNoTimer is returned when no Timer backs the requested source.
	ErrNoTimer = errors.New("clock: no timer for source")
	// ErrInvalidRate is returned for a rate whose period is not a positive
	// duration: zero, negative, or too fast to represent.
	ErrInvalidRate = errors.New("clock: rate must be positive")
	// ErrNotBound is returned by SetRate for a role with no binding.
	ErrNotBound = errors.New("clock: role not bound")
)

// Binding assigns a role to a source, firing Handler at Rate.
type Binding struct {
	Role    Role
	Source  Source
	Rate    physic.Frequency
	Handler func()
}

func (b Binding) String() string {
	return fmt.Sprintf("%s@%s/%s", b.Role, b.Source, b.Rate)
}

type armed struct {
	Binding
	gen uint64
}

// Scheduler arms timers for role bindings and provides the critical section
// shared by handlers and configuration code.
type Scheduler struct {
	mu     sync.Mutex // the interrupt mask
	timers map[Source]Timer
	bound  [numRoles]*armed
	gen    uint64
	log    *slog.Logger
}

// NewScheduler returns a Scheduler using the given timers.
// logger can be nil to use slog.Default().
func NewScheduler(timers map[Source]Timer, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	t := make(map[Source]Timer, len(timers))
	for src, tm := range timers {
		if tm != nil {
			t[src] = tm
		}
	}
	return &Scheduler{timers: t, log: logger}
}

// Critical runs fn with the mask held. The mask is released even if fn panics.
// fn must not call back into the Scheduler.
func (s *Scheduler) Critical(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Validate checks a binding set without arming anything.
func (s *Scheduler) Validate(bindings ...Binding) error {
	var used [numRoles]bool
	for _, b := range bindings {
		if b.Role >= numRoles {
			return fmt.Errorf("clock: invalid role %d", uint8(b.Role))
		}
		if used[b.Role] {
			return fmt.Errorf("clock: role %s bound twice", b.Role)
		}
		used[b.Role] = true
		if !b.Source.Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownSource, b.Source)
		}
		if _, ok := s.timers[b.Source]; !ok {
			return fmt.Errorf("%w: %s", ErrNoTimer, b.Source)
		}
		if !validRate(b.Rate) {
			return fmt.Errorf("%w: %s %s", ErrInvalidRate, b.Role, b.Rate)
		}
		if b.Handler == nil {
			return fmt.Errorf("clock: nil handler for role %s", b.Role)
		}
	}
	for i, a := range bindings {
		for _, b := range bindings[i+1:] {
			if a.Source == b.Source {
				return fmt.Errorf("%w: %s used for %s and %s", ErrSourceConflict, a.Source, a.Role, b.Role)
			}
		}
	}
	return nil
}

// Rebind replaces every binding with the given set.
//
// The set is validated first; on error nothing changes and setup is not run.
// Otherwise, with the mask held, setup runs, all previously bound sources are
// disarmed and the new ones are armed.
func (s *Scheduler) Rebind(setup func(), bindings ...Binding) error {
	if err := s.Validate(bindings...); err != nil {
		s.log.Warn("clock: binding rejected", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if setup != nil {
		setup()
	}
	s.releaseLocked()
	for _, b := range bindings {
		if err := s.armLocked(b); err != nil {
			s.releaseLocked()
			return fmt.Errorf("clock: failed to arm %s: %w", b, err)
		}
		s.log.Debug("clock: armed", "role", b.Role, "source", b.Source, "rate", b.Rate)
	}
	return nil
}

// SetRate reprograms the period of an already bound role.
func (s *Scheduler) SetRate(role Role, rate physic.Frequency) error {
	return s.SetRateIf(role, rate, nil)
}

// SetRateIf is SetRate with a precondition. check runs with the mask held
// before anything changes; if it returns an error, the binding is left as is
// and that error is returned. check must not call back into the Scheduler.
func (s *Scheduler) SetRateIf(role Role, rate physic.Frequency, check func() error) error {
	if !validRate(rate) {
		return fmt.Errorf("%w: %s %s", ErrInvalidRate, role, rate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if check != nil {
		if err := check(); err != nil {
			return err
		}
	}
	if role >= numRoles || s.bound[role] == nil {
		return fmt.Errorf("%w: %s", ErrNotBound, role)
	}
	b := s.bound[role].Binding
	s.disarmLocked(role)
	b.Rate = rate
	if err := s.armLocked(b); err != nil {
		return fmt.Errorf("clock: failed to arm %s: %w", b, err)
	}
	s.log.Debug("clock: rate changed", "role", role, "source", b.Source, "rate", rate)
	return nil
}

// Release disarms every bound source.
func (s *Scheduler) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

// Bound returns the source and rate bound to role.
func (s *Scheduler) Bound(role Role) (Source, physic.Frequency, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role >= numRoles || s.bound[role] == nil {
		return 0, 0, false
	}
	a := s.bound[role]
	return a.Source, a.Rate, true
}

// validRate reports whether rate converts to a positive period.
func validRate(rate physic.Frequency) bool {
	return rate > 0 && rate.Period() > 0
}

func (s *Scheduler) armLocked(b Binding) error {
	s.gen++
	gen := s.gen
	role, fn := b.Role, b.Handler
	if err := s.timers[b.Source].Arm(b.Rate.Period(), func() { s.fire(role, gen, fn) }); err != nil {
		return err
	}
	s.bound[b.Role] = &armed{Binding: b, gen: gen}
	return nil
}

func (s *Scheduler) disarmLocked(role Role) {
	a := s.bound[role]
	if a == nil {
		return
	}
	if err := s.timers[a.Source].Disarm(); err != nil {
		s.log.Warn("clock: failed to disarm", "source", a.Source, "error", err)
	}
	s.bound[role] = nil
}

func (s *Scheduler) releaseLocked() {
	for r := range s.bound {
		s.disarmLocked(Role(r))
	}
}

// fire runs a handler under the mask. Ticks from a binding that has since been
// replaced are dropped.
func (s *Scheduler) fire(role Role, gen uint64, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.bound[role]; a == nil || a.gen != gen {
		return
	}
	fn()
}
