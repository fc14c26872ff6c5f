package sevenseg

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/flavioheleno/sevenseg/clock"
	"github.com/flavioheleno/sevenseg/clock/clocktest"
	"github.com/flavioheleno/sevenseg/glyph"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

// rig is a display wired to fake pins and manually fired timers.
type rig struct {
	dev    *Dev
	timers map[clock.Source]*clocktest.Timer
	digits [NumDigits]*gpiotest.Pin
	segs   [glyph.NumSegments]*gpiotest.Pin
	dp     *gpiotest.Pin
}

func newRig(t *testing.T, pol Polarity) *rig {
	t.Helper()
	timers, fake := clocktest.Timers()
	r := &rig{timers: fake, dp: &gpiotest.Pin{N: "DP"}}

	opts := &Opts{DP: r.dp, Polarity: pol}
	for i := range r.digits {
		r.digits[i] = &gpiotest.Pin{N: fmt.Sprintf("D%d", i+1), Num: i}
		opts.Digits = append(opts.Digits, r.digits[i])
	}
	for i := range r.segs {
		r.segs[i] = &gpiotest.Pin{N: fmt.Sprintf("SEG_%c", 'A'+i), Num: 10 + i}
		opts.Segments = append(opts.Segments, r.segs[i])
	}

	dev, err := New(clock.NewScheduler(timers, nil), opts)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	r.dev = dev
	return r
}

// on reports whether a pin is in its active state for the rig polarity.
func (r *rig) on(p *gpiotest.Pin, digit bool) bool {
	l := p.Read()
	active := gpio.High
	if digit {
		active = gpio.Low
	}
	if r.dev.polarity == CommonAnode {
		active = !active
	}
	return l == active
}

// lit returns the positions whose digit is enabled.
func (r *rig) lit() []int {
	var out []int
	for i, p := range r.digits {
		if p != nil && r.on(p, true) {
			out = append(out, i)
		}
	}
	return out
}

// mask returns the segment pattern currently driven.
func (r *rig) mask() glyph.Mask {
	var m glyph.Mask
	for i, p := range r.segs {
		if r.on(p, false) {
			m |= 1 << uint(i)
		}
	}
	return m
}

// refresh fires the refresh source n times.
func (r *rig) refresh(n int) {
	r.timers[clock.MRT1].FireN(n)
}

// transition fires the transition/counting source once.
func (r *rig) transition() {
	r.timers[clock.WKT].Fire()
}

const (
	refreshRate    = 500 * physic.Hertz
	transitionRate = 2 * physic.Hertz
)

func TestNewValidation(t *testing.T) {
	timers, _ := clocktest.Timers()
	sched := clock.NewScheduler(timers, nil)
	pins := func(n int) []gpio.PinOut {
		out := make([]gpio.PinOut, n)
		for i := range out {
			out[i] = &gpiotest.Pin{N: fmt.Sprintf("P%d", i)}
		}
		return out
	}

	tests := []struct {
		name    string
		sched   *clock.Scheduler
		opts    *Opts
		wantErr bool
	}{
		{"nil options", sched, nil, false},
		{"full wiring", sched, &Opts{Digits: pins(4), Segments: pins(7)}, false},
		{"two digits", sched, &Opts{Digits: pins(2), Segments: pins(7)}, false},
		{"anode", sched, &Opts{Digits: pins(4), Segments: pins(7), Polarity: CommonAnode}, false},
		{"too many digits", sched, &Opts{Digits: pins(5)}, true},
		{"too many segments", sched, &Opts{Segments: pins(8)}, true},
		{"invalid polarity", sched, &Opts{Polarity: Polarity(7)}, true},
		{"nil scheduler", nil, &Opts{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.sched, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// failPin is an output pin whose writes always fail.
type failPin struct {
	*gpiotest.Pin
}

func (failPin) Out(gpio.Level) error {
	return errors.New("bus error")
}

func TestNewPinFailure(t *testing.T) {
	timers, _ := clocktest.Timers()
	_, err := New(clock.NewScheduler(timers, nil), &Opts{
		Digits: []gpio.PinOut{failPin{&gpiotest.Pin{N: "BAD"}}},
	})
	if err == nil {
		t.Fatal("New() should fail when a pin cannot be driven")
	}
}

func TestNewIdleLevels(t *testing.T) {
	r := newRig(t, CommonCathode)
	for i, p := range r.digits {
		if p.Read() != gpio.High {
			t.Errorf("digit %d = %v, want High (disabled)", i, p.Read())
		}
	}
	if m := r.mask(); m != glyph.Blank {
		t.Errorf("segments = %v, want blank", m)
	}
	if r.dev.Text() != "    " {
		t.Errorf("Text() = %q, want blank", r.dev.Text())
	}
	if r.dev.Mode() != ModeIdle {
		t.Errorf("Mode() = %v, want idle", r.dev.Mode())
	}
	if r.dev.Digit() != -1 {
		t.Errorf("Digit() = %d, want -1", r.dev.Digit())
	}
}

func TestRefreshCycles(t *testing.T) {
	for _, pol := range []Polarity{CommonCathode, CommonAnode} {
		t.Run(pol.String(), func(t *testing.T) {
			r := newRig(t, pol)
			if err := r.dev.ShowText("12Ab", clock.MRT1, refreshRate); err != nil {
				t.Fatalf("ShowText() unexpected error: %v", err)
			}

			text := "12Ab"
			for tick := 0; tick < 9; tick++ {
				r.refresh(1)
				want := tick % NumDigits
				if got := r.dev.Digit(); got != want {
					t.Fatalf("tick %d: Digit() = %d, want %d", tick, got, want)
				}
				lit := r.lit()
				if len(lit) != 1 || lit[0] != want {
					t.Fatalf("tick %d: lit digits = %v, want [%d]", tick, lit, want)
				}
				if got, wantMask := r.mask(), glyph.Encode(text[want]); got != wantMask {
					t.Errorf("tick %d: segments = %v, want %v", tick, got, wantMask)
				}
			}
		})
	}
}

func TestRefreshSkipsUnboundDigit(t *testing.T) {
	r := newRig(t, CommonCathode)
	if err := r.dev.SetDigitPins(r.digits[0], r.digits[1], nil, r.digits[3]); err != nil {
		t.Fatalf("SetDigitPins() unexpected error: %v", err)
	}
	if err := r.dev.ShowText("8888", clock.MRT1, refreshRate); err != nil {
		t.Fatal(err)
	}

	r.refresh(3)
	if r.dev.Digit() != 2 {
		t.Fatalf("Digit() = %d, want 2", r.dev.Digit())
	}
	if lit := r.lit(); len(lit) != 0 {
		t.Errorf("lit digits = %v, want none while position 2 is unbound", lit)
	}
	r.refresh(1)
	if lit := r.lit(); len(lit) != 1 || lit[0] != 3 {
		t.Errorf("lit digits = %v, want [3]", lit)
	}
}

func TestDecimalPoint(t *testing.T) {
	r := newRig(t, CommonCathode)
	if r.dev.DecimalPoint() {
		t.Fatal("decimal point should start off")
	}
	if err := r.dev.SetDecimalPoint(true); err != nil {
		t.Fatal(err)
	}
	if r.dp.Read() != gpio.High {
		t.Error("decimal point pin should be High when on (cathode)")
	}

	// The decimal point is applied on every refresh tick.
	if err := r.dev.ShowText("1234", clock.MRT1, refreshRate); err != nil {
		t.Fatal(err)
	}
	r.refresh(5)
	if r.dp.Read() != gpio.High {
		t.Error("decimal point should stay on across refresh ticks")
	}

	if err := r.dev.ToggleDecimalPoint(); err != nil {
		t.Fatal(err)
	}
	if r.dev.DecimalPoint() || r.dp.Read() != gpio.Low {
		t.Error("decimal point should be off after toggle")
	}
}

func TestSetPolarity(t *testing.T) {
	r := newRig(t, CommonCathode)
	if err := r.dev.SetPolarity(CommonAnode); err != nil {
		t.Fatal(err)
	}
	if r.dev.Polarity() != CommonAnode {
		t.Fatalf("Polarity() = %v, want anode", r.dev.Polarity())
	}
	for i, p := range r.digits {
		if p.Read() != gpio.Low {
			t.Errorf("digit %d = %v, want Low (disabled, anode)", i, p.Read())
		}
	}
	for i, p := range r.segs {
		if p.Read() != gpio.High {
			t.Errorf("segment %d = %v, want High (off, anode)", i, p.Read())
		}
	}
	if err := r.dev.SetPolarity(Polarity(3)); err == nil {
		t.Error("SetPolarity() should reject an invalid polarity")
	}
}

func TestParsePolarity(t *testing.T) {
	tests := []struct {
		in      string
		want    Polarity
		wantErr bool
	}{
		{"cathode", CommonCathode, false},
		{"Common-Cathode", CommonCathode, false},
		{"anode", CommonAnode, false},
		{"common-anode", CommonAnode, false},
		{"both", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePolarity(tt.in)
		if (err != nil) != tt.wantErr || (!tt.wantErr && got != tt.want) {
			t.Errorf("ParsePolarity(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestShowCharacter(t *testing.T) {
	r := newRig(t, CommonCathode)
	if err := r.dev.ShowText("ABCD", clock.MRT1, refreshRate); err != nil {
		t.Fatal(err)
	}
	if err := r.dev.ShowCharacter('e'); err != nil {
		t.Fatalf("ShowCharacter() unexpected error: %v", err)
	}
	if lit := r.lit(); len(lit) != NumDigits {
		t.Errorf("lit digits = %v, want all", lit)
	}
	if r.mask() != glyph.Encode('E') {
		t.Errorf("segments = %v, want %v", r.mask(), glyph.Encode('E'))
	}
	if r.timers[clock.MRT1].Armed() {
		t.Error("refresh source should be released")
	}
	if r.dev.Text() != "eeee" {
		t.Errorf("Text() = %q, want eeee", r.dev.Text())
	}

	if err := r.dev.ShowDigit(7); err != nil {
		t.Fatal(err)
	}
	if r.mask() != glyph.Encode('7') {
		t.Errorf("segments = %v, want 7", r.mask())
	}
	if err := r.dev.ShowDigit(10); err == nil {
		t.Error("ShowDigit(10) should fail")
	}
}

func TestShowText(t *testing.T) {
	r := newRig(t, CommonCathode)
	tests := []struct {
		in   string
		want string
	}{
		{"ABCD", "ABCD"},
		{"AB", "AB  "},
		{"ABCDEF", "ABCD"},
		{"", "    "},
	}
	for _, tt := range tests {
		if err := r.dev.ShowText(tt.in, clock.MRT1, refreshRate); err != nil {
			t.Fatal(err)
		}
		if got := r.dev.Text(); got != tt.want {
			t.Errorf("ShowText(%q): Text() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShowNumber(t *testing.T) {
	r := newRig(t, CommonCathode)
	tests := []struct {
		n    int
		want string
	}{
		{0, "0000"},
		{42, "0042"},
		{9999, "9999"},
		{12345, "2345"},
		{-1, "9999"},
	}
	for _, tt := range tests {
		if err := r.dev.ShowNumber(tt.n, clock.MRT1, refreshRate); err != nil {
			t.Fatal(err)
		}
		if got := r.dev.Text(); got != tt.want {
			t.Errorf("ShowNumber(%d): Text() = %q, want %q", tt.n, got, tt.want)
		}
		if r.dev.Mode() != ModeStatic {
			t.Errorf("Mode() = %v, want static", r.dev.Mode())
		}
	}
}

func TestHalt(t *testing.T) {
	r := newRig(t, CommonCathode)
	if err := r.dev.ShowText("1234", clock.MRT1, refreshRate); err != nil {
		t.Fatal(err)
	}
	r.refresh(2)
	if err := r.dev.Halt(); err != nil {
		t.Fatalf("Halt() unexpected error: %v", err)
	}
	if r.timers[clock.MRT1].Armed() {
		t.Error("Halt should release the refresh source")
	}
	if lit := r.lit(); len(lit) != 0 {
		t.Errorf("lit digits after Halt = %v, want none", lit)
	}

	if err := r.dev.ShowText("1234", clock.MRT1, refreshRate); !errors.Is(err, ErrHalted) {
		t.Errorf("ShowText after Halt error = %v, want ErrHalted", err)
	}
	if err := r.dev.ShowCharacter('1'); !errors.Is(err, ErrHalted) {
		t.Errorf("ShowCharacter after Halt error = %v, want ErrHalted", err)
	}
	if err := r.dev.SetDecimalPoint(true); !errors.Is(err, ErrHalted) {
		t.Errorf("SetDecimalPoint after Halt error = %v, want ErrHalted", err)
	}
	if _, err := r.dev.StartCounter(CounterConfig{CountSource: clock.WKT, CountRate: transitionRate, RefreshSource: clock.MRT1, RefreshRate: refreshRate}); !errors.Is(err, ErrHalted) {
		t.Errorf("StartCounter after Halt error = %v, want ErrHalted", err)
	}
}

func TestDevString(t *testing.T) {
	r := newRig(t, CommonAnode)
	want := "sevenseg.Dev{digits:4, common-anode}"
	if got := r.dev.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDevStringConcurrent(t *testing.T) {
	r := newRig(t, CommonCathode)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			pol := CommonCathode
			if i%2 == 0 {
				pol = CommonAnode
			}
			if err := r.dev.SetPolarity(pol); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	for i := 0; i < 100; i++ {
		if s := r.dev.String(); s == "" {
			t.Fatal("String() returned an empty string")
		}
	}
	wg.Wait()
}

func TestSwitchingBehaviorReplacesBindings(t *testing.T) {
	r := newRig(t, CommonCathode)
	c, err := r.dev.StartCounter(CounterConfig{
		Direction: Up, Increment: 1,
		CountSource: clock.WKT, CountRate: transitionRate,
		RefreshSource: clock.MRT1, RefreshRate: refreshRate,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.dev.StartSlider(SliderConfig{
		Text:             "ABCDEFGH",
		TransitionSource: clock.CTimer0, TransitionRate: transitionRate,
		RefreshSource: clock.MRT1, RefreshRate: refreshRate,
	}); err != nil {
		t.Fatal(err)
	}
	if r.timers[clock.WKT].Armed() {
		t.Error("counting source should be released when the slider starts")
	}
	if r.dev.Mode() != ModeSlider {
		t.Errorf("Mode() = %v, want slider", r.dev.Mode())
	}
	if err := c.SetRate(physic.Hertz); !errors.Is(err, ErrNotActive) {
		t.Errorf("SetRate on replaced counter error = %v, want ErrNotActive", err)
	}
	c.Reset()
	if r.dev.Text() != "ABCD" {
		t.Errorf("replaced counter must not write the buffer, Text() = %q", r.dev.Text())
	}
}
