package sevenseg

import (
	"github.com/flavioheleno/sevenseg/clock"
	"periph.io/x/conn/v3/physic"
)

// padding is the lead-in (and, for one-shot carousels, lead-out) added around
// padded text: one full screen of blanks.
const padding = "    "

// CarouselConfig is the configuration of a scrolling text carousel.
type CarouselConfig struct {
	Text       string
	Continuous bool // Loop forever instead of scrolling once
	Pad        bool // Scroll in from, and for one-shot out to, a blank screen

	TransitionSource clock.Source
	TransitionRate   physic.Frequency
	RefreshSource    clock.Source
	RefreshRate      physic.Frequency
}

// Carousel scrolls text across the display one character per transition tick.
type Carousel struct {
	dev *Dev

	seq        []byte
	length     int // last scroll position of the sequence
	index      int // -1 before the first tick
	continuous bool
	overflow   bool // one-shot scroll has reached its end
	paused     bool
}

// StartCarousel makes a carousel the active behavior. TransitionSource and
// RefreshSource must differ; on error the previous behavior keeps running.
func (d *Dev) StartCarousel(cfg CarouselConfig) (*Carousel, error) {
	c := newCarousel(d, cfg)
	err := d.start(ModeCarousel, c, func() { d.buf = c.window(0) },
		d.refreshBinding(cfg.RefreshSource, cfg.RefreshRate),
		d.stepBinding(clock.Transition, cfg.TransitionSource, cfg.TransitionRate, c),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newCarousel(d *Dev, cfg CarouselConfig) *Carousel {
	n := len(cfg.Text)
	seq := make([]byte, 0, n+2*len(padding))
	length := n
	if cfg.Pad {
		seq = append(seq, padding...)
		length += len(padding) - 1
	}
	seq = append(seq, cfg.Text...)
	switch {
	case cfg.Pad && !cfg.Continuous:
		seq = append(seq, padding...)
		length += len(padding) + 1
	case !cfg.Pad && cfg.Continuous:
		// Separates the end of the text from its start when looping.
		seq = append(seq, ' ')
	}
	if len(seq) == 0 {
		seq = append(seq, ' ')
	}
	return &Carousel{
		dev:        d,
		seq:        seq,
		length:     length,
		index:      -1,
		continuous: cfg.Continuous,
	}
}

// step is the transition handler.
func (c *Carousel) step() [NumDigits]byte {
	if !c.overflow && !c.paused {
		c.index++
	}
	w := c.window(c.index)
	switch {
	case c.continuous && c.index >= c.length:
		c.index = -1
	case !c.continuous && c.index >= c.length-NumDigits:
		c.overflow = true
	}
	return w
}

// window returns the 4 characters starting at index i. A continuous carousel
// reads past the end of the sequence from its start.
func (c *Carousel) window(i int) [NumDigits]byte {
	if i < 0 {
		i = 0
	}
	var w [NumDigits]byte
	for k := range w {
		w[k] = c.at(i + k)
	}
	return w
}

func (c *Carousel) at(i int) byte {
	switch {
	case i < len(c.seq):
		return c.seq[i]
	case c.continuous:
		return c.seq[i%len(c.seq)]
	}
	return ' '
}

// Sequence returns the working sequence, including padding.
func (c *Carousel) Sequence() string {
	return string(c.seq)
}

// Index returns the scroll position, -1 before the first tick.
func (c *Carousel) Index() int {
	var i int
	c.dev.sched.Critical(func() { i = c.index })
	return i
}

// Paused reports whether scrolling is paused.
func (c *Carousel) Paused() bool {
	var p bool
	c.dev.sched.Critical(func() { p = c.paused })
	return p
}

// Overflowed reports whether a one-shot carousel has reached its end.
func (c *Carousel) Overflowed() bool {
	var o bool
	c.dev.sched.Critical(func() { o = c.overflow })
	return o
}

// TogglePause pauses or resumes scrolling.
func (c *Carousel) TogglePause() {
	c.dev.sched.Critical(func() { c.paused = !c.paused })
}

// Pause stops scrolling. The display keeps refreshing.
func (c *Carousel) Pause() {
	c.dev.sched.Critical(func() { c.paused = true })
}

// Resume continues scrolling.
func (c *Carousel) Resume() {
	c.dev.sched.Critical(func() { c.paused = false })
}

// Restart scrolls again from the start of the sequence.
func (c *Carousel) Restart() {
	c.dev.sched.Critical(func() {
		c.index = -1
		c.overflow = false
		c.paused = false
		c.dev.show(c, c.window(0))
	})
}

// SetRate changes the scrolling rate.
func (c *Carousel) SetRate(rate physic.Frequency) error {
	return c.dev.setRate(c, clock.Transition, rate)
}
