package clock

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Source identifies one periodic interrupt source.
type Source uint8

// Sources available on the reference board.
const (
	SysTick Source = iota
	WKT
	MRT0
	MRT1
	CTimer0

	numSources
)

var sourceNames = [numSources]string{"SysTick", "WKT", "MRT0", "MRT1", "CTIMER0"}

// Sources returns every known source in declaration order.
func Sources() []Source {
	s := make([]Source, numSources)
	for i := range s {
		s[i] = Source(i)
	}
	return s
}

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	return s < numSources
}

func (s Source) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Source(%d)", uint8(s))
	}
	return sourceNames[s]
}

// ParseSource returns the source with the given name. Matching is case-insensitive.
func ParseSource(name string) (Source, error) {
	for i, n := range sourceNames {
		if strings.EqualFold(n, name) {
			return Source(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

// Role is the job a source performs for the active display behavior.
type Role uint8

const (
	// Refresh advances the lit digit.
	Refresh Role = iota
	// Transition advances a carousel or slider.
	Transition
	// Counting advances a counter.
	Counting

	numRoles
)

var roleNames = [numRoles]string{"refresh", "transition", "counting"}

func (r Role) String() string {
	if r >= numRoles {
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
	return roleNames[r]
}

// Timer is a periodic interrupt source.
//
// Arm starts calling fn every period, replacing any previous arming.
// Disarm stops it. Neither may call fn synchronously.
type Timer interface {
	Arm(period time.Duration, fn func()) error
	Disarm() error
}

// Ticker is a host Timer built on time.Ticker.
// The zero value is ready to use.
type Ticker struct {
	mu   sync.Mutex
	stop chan struct{}
}

// Arm implements Timer.
func (t *Ticker) Arm(period time.Duration, fn func()) error {
	if period <= 0 {
		return errors.New("clock: period must be positive")
	}
	if fn == nil {
		return errors.New("clock: nil handler")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.disarm()

	stop := make(chan struct{})
	t.stop = stop
	tk := time.NewTicker(period)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				fn()
			}
		}
	}()
	return nil
}

// Disarm implements Timer. It does not wait for a running handler to return.
func (t *Ticker) Disarm() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disarm()
	return nil
}

func (t *Ticker) disarm() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// HostTimers returns one Ticker per known source.
func HostTimers() map[Source]Timer {
	m := make(map[Source]Timer, numSources)
	for _, s := range Sources() {
		m[s] = &Ticker{}
	}
	return m
}
