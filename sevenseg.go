// Package sevenseg drives a 4-digit 7-segment display by multiplexing GPIO pins.
//
// One digit is lit per refresh tick; a second periodic source animates what is
// shown (counter, carousel, slider). Both sources come from a clock.Scheduler.
//
// See the examples for how to use this package.
package sevenseg

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flavioheleno/sevenseg/clock"
	"github.com/flavioheleno/sevenseg/glyph"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// NumDigits is the number of digit positions on the display.
const NumDigits = 4

// ErrHalted is returned by every operation after Halt.
var ErrHalted = errors.New("sevenseg: halted")

// ErrNotActive is returned when a behavior handle is used after another
// behavior replaced it.
var ErrNotActive = errors.New("sevenseg: behavior no longer active")

// Polarity selects which level turns a segment or digit on.
type Polarity uint8

const (
	// CommonCathode drives segments and the decimal point high to light them
	// and pulls the digit line low to enable it.
	CommonCathode Polarity = iota
	// CommonAnode inverts every level of CommonCathode.
	CommonAnode
)

func (p Polarity) String() string {
	switch p {
	case CommonCathode:
		return "common-cathode"
	case CommonAnode:
		return "common-anode"
	}
	return fmt.Sprintf("Polarity(%d)", uint8(p))
}

// ParsePolarity accepts "cathode", "common-cathode", "anode" or "common-anode".
func ParsePolarity(s string) (Polarity, error) {
	switch strings.TrimPrefix(strings.ToLower(s), "common-") {
	case "cathode":
		return CommonCathode, nil
	case "anode":
		return CommonAnode, nil
	}
	return 0, fmt.Errorf("sevenseg: unknown polarity %q", s)
}

// Mode is the behavior currently owning the display buffer.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeStatic
	ModeCounter
	ModeCarousel
	ModeSlider
)

var modeNames = [...]string{"idle", "static", "counter", "carousel", "slider"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Opts is the configuration for the display.
type Opts struct {
	// Digit enable pins, left to right (at most 4). nil entries are unbound
	// and skipped.
	Digits []gpio.PinOut
	// Segment pins in order A..G (at most 7). nil entries are skipped.
	Segments []gpio.PinOut
	// Decimal point pin (optional).
	DP gpio.PinOut

	Polarity Polarity

	// Logger (optional, defaults to slog.Default()).
	Logger *slog.Logger
}

// behavior advances the display content on each transition or counting tick.
type behavior interface {
	step() [NumDigits]byte
}

// Dev is the device handle for a multiplexed 7-segment display.
type Dev struct {
	sched *clock.Scheduler
	log   *slog.Logger

	// Wiring
	digits   [NumDigits]gpio.PinOut
	segs     [glyph.NumSegments]gpio.PinOut
	dp       gpio.PinOut
	polarity Polarity
	dpOn     bool

	// Display buffer, in reading order, and the currently lit position.
	buf [NumDigits]byte
	lit int

	// Active behavior
	mode   Mode
	active behavior

	refreshErr error
	halted     bool
}

// New creates a display driven by the given scheduler.
//
// opts can be nil for a display with no pins bound yet; use SetDigitPins and
// SetSegmentPins later.
func New(sched *clock.Scheduler, opts *Opts) (*Dev, error) {
	if sched == nil {
		return nil, errors.New("sevenseg: scheduler is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	if len(opts.Digits) > NumDigits {
		return nil, fmt.Errorf("sevenseg: at most %d digit pins", NumDigits)
	}
	if len(opts.Segments) > glyph.NumSegments {
		return nil, fmt.Errorf("sevenseg: at most %d segment pins", glyph.NumSegments)
	}
	if opts.Polarity != CommonCathode && opts.Polarity != CommonAnode {
		return nil, fmt.Errorf("sevenseg: invalid polarity %d", opts.Polarity)
	}

	d := &Dev{
		sched:    sched,
		log:      opts.Logger,
		dp:       opts.DP,
		polarity: opts.Polarity,
		buf:      blankWindow(),
		lit:      -1,
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	copy(d.digits[:], opts.Digits)
	copy(d.segs[:], opts.Segments)

	var err error
	sched.Critical(func() { err = d.idle() })
	if err != nil {
		return nil, fmt.Errorf("sevenseg: failed to initialize pins: %w", err)
	}
	return d, nil
}

// SetDigitPins rebinds the digit enable pins, left to right.
func (d *Dev) SetDigitPins(pins ...gpio.PinOut) error {
	if len(pins) > NumDigits {
		return fmt.Errorf("sevenseg: at most %d digit pins", NumDigits)
	}
	return d.reconfigure(func() error {
		if err := d.clearDigits(); err != nil {
			return err
		}
		d.digits = [NumDigits]gpio.PinOut{}
		copy(d.digits[:], pins)
		return d.idle()
	})
}

// SetSegmentPins rebinds the segment pins in order A..G.
func (d *Dev) SetSegmentPins(pins ...gpio.PinOut) error {
	if len(pins) > glyph.NumSegments {
		return fmt.Errorf("sevenseg: at most %d segment pins", glyph.NumSegments)
	}
	return d.reconfigure(func() error {
		d.segs = [glyph.NumSegments]gpio.PinOut{}
		copy(d.segs[:], pins)
		return d.idle()
	})
}

// SetDecimalPin rebinds the decimal point pin. nil disables it.
func (d *Dev) SetDecimalPin(p gpio.PinOut) error {
	return d.reconfigure(func() error {
		d.dp = p
		return d.driveDP()
	})
}

// SetPolarity changes the display polarity. Every pin is re-driven.
func (d *Dev) SetPolarity(p Polarity) error {
	if p != CommonCathode && p != CommonAnode {
		return fmt.Errorf("sevenseg: invalid polarity %d", p)
	}
	return d.reconfigure(func() error {
		d.polarity = p
		return d.idle()
	})
}

// Polarity returns the display polarity.
func (d *Dev) Polarity() Polarity {
	var p Polarity
	d.sched.Critical(func() { p = d.polarity })
	return p
}

// SetDecimalPoint turns the decimal point on or off.
func (d *Dev) SetDecimalPoint(on bool) error {
	return d.reconfigure(func() error {
		d.dpOn = on
		return d.driveDP()
	})
}

// ToggleDecimalPoint flips the decimal point.
func (d *Dev) ToggleDecimalPoint() error {
	return d.reconfigure(func() error {
		d.dpOn = !d.dpOn
		return d.driveDP()
	})
}

// DecimalPoint reports whether the decimal point is on.
func (d *Dev) DecimalPoint() bool {
	var on bool
	d.sched.Critical(func() { on = d.dpOn })
	return on
}

// ShowText shows the first 4 characters of text, refreshing one digit per
// tick of src. Shorter text is padded with blanks.
func (d *Dev) ShowText(text string, src clock.Source, rate physic.Frequency) error {
	w := blankWindow()
	copy(w[:], text)
	return d.start(ModeStatic, nil, func() { d.buf = w }, d.refreshBinding(src, rate))
}

// ShowNumber shows n as 4 zero-padded digits. n is folded into [0, 9999].
func (d *Dev) ShowNumber(n int, src clock.Source, rate physic.Frequency) error {
	w := formatCount(normalize(n))
	return d.ShowText(string(w[:]), src, rate)
}

// ShowCharacter lights every bound digit with the same character. No source
// is needed since nothing changes between digits; all sources are released.
func (d *Dev) ShowCharacter(c byte) error {
	if d.isHalted() {
		return ErrHalted
	}
	var err error
	rerr := d.sched.Rebind(func() {
		d.mode = ModeStatic
		d.active = nil
		d.buf = [NumDigits]byte{c, c, c, c}
		d.lit = -1
		err = d.showAll(glyph.Encode(c))
	})
	if rerr != nil {
		return rerr
	}
	return err
}

// ShowDigit is ShowCharacter for a single decimal digit.
func (d *Dev) ShowDigit(n int) error {
	if n < 0 || n > 9 {
		return errors.New("sevenseg: digit must be between 0 and 9")
	}
	return d.ShowCharacter(byte('0' + n))
}

// Text returns the 4 characters currently in the display buffer.
func (d *Dev) Text() string {
	var b [NumDigits]byte
	d.sched.Critical(func() { b = d.buf })
	return string(b[:])
}

// Digit returns the currently lit position, or -1 before the first refresh.
func (d *Dev) Digit() int {
	var i int
	d.sched.Critical(func() { i = d.lit })
	return i
}

// Mode returns the active behavior.
func (d *Dev) Mode() Mode {
	var m Mode
	d.sched.Critical(func() { m = d.mode })
	return m
}

// Halt releases every clock source and blanks the display.
// After calling Halt, the display will not respond to further commands.
func (d *Dev) Halt() error {
	d.sched.Release()
	var err error
	d.sched.Critical(func() {
		d.halted = true
		d.dpOn = false
		d.mode = ModeIdle
		d.active = nil
		d.buf = blankWindow()
		err = d.idle()
	})
	return err
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	n := 0
	var pol Polarity
	d.sched.Critical(func() {
		for _, p := range d.digits {
			if p != nil {
				n++
			}
		}
		pol = d.polarity
	})
	return fmt.Sprintf("sevenseg.Dev{digits:%d, %s}", n, pol)
}

// start makes b the active behavior. setup runs under the mask before the
// sources are armed; it is skipped when the bindings are rejected.
func (d *Dev) start(mode Mode, b behavior, setup func(), bindings ...clock.Binding) error {
	if d.isHalted() {
		return ErrHalted
	}
	err := d.sched.Rebind(func() {
		setup()
		d.mode = mode
		d.active = b
		d.lit = -1
		d.refreshErr = nil
	}, bindings...)
	if err != nil {
		d.log.Warn("sevenseg: configuration rejected", "mode", mode, "error", err)
		return fmt.Errorf("sevenseg: cannot start %s: %w", mode, err)
	}
	d.log.Debug("sevenseg: started", "mode", mode)
	return nil
}

// reconfigure runs fn under the mask unless the device is halted.
func (d *Dev) reconfigure(fn func() error) error {
	var err error
	d.sched.Critical(func() {
		if d.halted {
			err = ErrHalted
			return
		}
		err = fn()
	})
	return err
}

// setRate reprograms the source of role if b is still the active behavior.
// The check and the reprogram happen under one hold of the mask.
func (d *Dev) setRate(b behavior, role clock.Role, rate physic.Frequency) error {
	return d.sched.SetRateIf(role, rate, func() error {
		if d.active != b || d.halted {
			return ErrNotActive
		}
		return nil
	})
}

// show writes w to the display buffer if b is the active behavior.
// Must be called under the mask.
func (d *Dev) show(b behavior, w [NumDigits]byte) {
	if d.active == b {
		d.buf = w
	}
}

func (d *Dev) isHalted() bool {
	var h bool
	d.sched.Critical(func() { h = d.halted })
	return h
}

func (d *Dev) refreshBinding(src clock.Source, rate physic.Frequency) clock.Binding {
	return clock.Binding{Role: clock.Refresh, Source: src, Rate: rate, Handler: d.onRefresh}
}

func (d *Dev) stepBinding(role clock.Role, src clock.Source, rate physic.Frequency, b behavior) clock.Binding {
	return clock.Binding{Role: role, Source: src, Rate: rate, Handler: func() { d.buf = b.step() }}
}

func blankWindow() [NumDigits]byte {
	return [NumDigits]byte{' ', ' ', ' ', ' '}
}
