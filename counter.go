package sevenseg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flavioheleno/sevenseg/clock"
	"periph.io/x/conn/v3/physic"
)

// countRange is the number of values a 4-digit display can show.
const countRange = 10000

// Direction is the counting direction.
type Direction uint8

const (
	Up Direction = iota
	Down
)

// Valid reports whether d is Up or Down.
func (d Direction) Valid() bool {
	return d == Up || d == Down
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection accepts "UP" or "DOWN", in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(s) {
	case "UP":
		return Up, nil
	case "DOWN":
		return Down, nil
	}
	return 0, fmt.Errorf("sevenseg: unknown direction %q", s)
}

// CounterConfig is the configuration of a counter.
type CounterConfig struct {
	Start       int
	Direction   Direction
	Increment   int
	Stop        int  // Value at which counting pauses
	StopEnabled bool // Pause at Stop

	CountSource   clock.Source
	CountRate     physic.Frequency
	RefreshSource clock.Source
	RefreshRate   physic.Frequency
}

// Counter is a running counter shown on the display.
//
// The raw count is unbounded; the displayed count is the raw count folded
// into [0, 9999].
type Counter struct {
	dev *Dev

	start      int
	current    int
	normalized int
	increment  int
	dir        Direction

	stop        int
	stopEnabled bool
	paused      bool
}

// StartCounter makes a counter the active behavior. CountSource and
// RefreshSource must differ; on error the previous behavior keeps running.
func (d *Dev) StartCounter(cfg CounterConfig) (*Counter, error) {
	if !cfg.Direction.Valid() {
		return nil, errors.New("sevenseg: invalid counting direction")
	}
	c := &Counter{
		dev:         d,
		start:       cfg.Start,
		current:     cfg.Start,
		normalized:  normalize(cfg.Start),
		increment:   cfg.Increment,
		dir:         cfg.Direction,
		stop:        cfg.Stop,
		stopEnabled: cfg.StopEnabled,
	}
	err := d.start(ModeCounter, c, func() { d.buf = c.digits() },
		d.refreshBinding(cfg.RefreshSource, cfg.RefreshRate),
		d.stepBinding(clock.Counting, cfg.CountSource, cfg.CountRate, c),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// step is the counting handler.
func (c *Counter) step() [NumDigits]byte {
	if !c.paused {
		delta := c.increment
		if c.dir == Down {
			delta = -delta
		}
		c.current += delta
		c.normalized = normalize(c.normalized + delta)
		if c.stopEnabled && c.current == c.stop {
			c.paused = true
		}
	}
	return c.digits()
}

func (c *Counter) digits() [NumDigits]byte {
	return formatCount(c.normalized)
}

// Count returns the displayed count, in [0, 9999].
func (c *Counter) Count() int {
	var n int
	c.dev.sched.Critical(func() { n = c.normalized })
	return n
}

// Total returns the raw count, which may lie outside [0, 9999].
func (c *Counter) Total() int {
	var n int
	c.dev.sched.Critical(func() { n = c.current })
	return n
}

// Paused reports whether counting is paused.
func (c *Counter) Paused() bool {
	var p bool
	c.dev.sched.Critical(func() { p = c.paused })
	return p
}

// Direction returns the counting direction.
func (c *Counter) Direction() Direction {
	var d Direction
	c.dev.sched.Critical(func() { d = c.dir })
	return d
}

// TogglePause pauses a running counter or resumes a paused one.
func (c *Counter) TogglePause() {
	c.dev.sched.Critical(func() { c.paused = !c.paused })
}

// Pause stops counting. The display keeps refreshing.
func (c *Counter) Pause() {
	c.dev.sched.Critical(func() { c.paused = true })
}

// Resume continues counting.
func (c *Counter) Resume() {
	c.dev.sched.Critical(func() { c.paused = false })
}

// Reset returns to the start value and resumes counting.
func (c *Counter) Reset() {
	c.dev.sched.Critical(func() {
		c.current = c.start
		c.normalized = normalize(c.start)
		c.paused = false
		c.dev.show(c, c.digits())
	})
}

// SetCount restarts counting from n, which also becomes the Reset value.
func (c *Counter) SetCount(n int) {
	c.dev.sched.Critical(func() {
		c.start = n
		c.current = n
		c.normalized = normalize(n)
		c.paused = false
		c.dev.show(c, c.digits())
	})
}

// SetIncrement changes the amount added or subtracted per tick.
func (c *Counter) SetIncrement(n int) {
	c.dev.sched.Critical(func() { c.increment = n })
}

// SetDirection changes the counting direction. An invalid direction is
// rejected and the counter is unchanged.
func (c *Counter) SetDirection(dir Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("sevenseg: invalid direction %s", dir)
	}
	c.dev.sched.Critical(func() { c.dir = dir })
	return nil
}

// SetDirectionName is SetDirection for "UP" or "DOWN", in any case.
func (c *Counter) SetDirectionName(name string) error {
	dir, err := ParseDirection(name)
	if err != nil {
		return err
	}
	return c.SetDirection(dir)
}

// SetStopValue enables the stop value. The counter is paused if it already
// sits on n and resumed otherwise.
func (c *Counter) SetStopValue(n int) {
	c.dev.sched.Critical(func() {
		c.stopEnabled = true
		c.stop = n
		c.paused = c.current == n
	})
}

// ClearStopValue disables the stop value and resumes counting.
func (c *Counter) ClearStopValue() {
	c.dev.sched.Critical(func() {
		c.stopEnabled = false
		c.stop = 0
		c.paused = false
	})
}

// SetRate changes the counting rate.
func (c *Counter) SetRate(rate physic.Frequency) error {
	return c.dev.setRate(c, clock.Counting, rate)
}

// normalize folds n into [0, countRange).
func normalize(n int) int {
	n %= countRange
	if n < 0 {
		n += countRange
	}
	return n
}

// formatCount renders n (in [0, 9999]) as 4 zero-padded digits.
func formatCount(n int) [NumDigits]byte {
	var b [NumDigits]byte
	for i := NumDigits - 1; i >= 0; i-- {
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return b
}
