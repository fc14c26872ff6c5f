package sevenseg

import (
	"github.com/flavioheleno/sevenseg/clock"
	"periph.io/x/conn/v3/physic"
)

// SliderConfig is the configuration of a paged text slider.
type SliderConfig struct {
	Text           string
	Continuous     bool // Loop forever instead of stopping on the last page
	Pad            bool // Start on a blank page
	CollapseSpaces bool // Drop isolated spaces; runs of two or more are kept

	TransitionSource clock.Source
	TransitionRate   physic.Frequency
	RefreshSource    clock.Source
	RefreshRate      physic.Frequency
}

// Slider shows text 4 characters at a time, swapping the whole page on each
// transition tick.
type Slider struct {
	dev *Dev

	seq        []byte // whole pages only
	page       int    // offset of the page shown next
	continuous bool
	paused     bool
}

// StartSlider makes a slider the active behavior. TransitionSource and
// RefreshSource must differ; on error the previous behavior keeps running.
func (d *Dev) StartSlider(cfg SliderConfig) (*Slider, error) {
	s := &Slider{
		dev:        d,
		seq:        sliderSequence(cfg.Text, cfg.Pad, cfg.CollapseSpaces),
		continuous: cfg.Continuous,
	}
	err := d.start(ModeSlider, s, func() { d.buf = s.window() },
		d.refreshBinding(cfg.RefreshSource, cfg.RefreshRate),
		d.stepBinding(clock.Transition, cfg.TransitionSource, cfg.TransitionRate, s),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// sliderSequence builds the paged working sequence for text.
func sliderSequence(text string, pad, collapse bool) []byte {
	body := make([]byte, 0, len(text)+NumDigits)
	for i := 0; i < len(text); i++ {
		if collapse && isolatedSpace(text, i) {
			continue
		}
		body = append(body, text[i])
	}
	for len(body) == 0 || len(body)%NumDigits != 0 {
		body = append(body, ' ')
	}
	if !pad {
		return body
	}
	return append([]byte(padding), body...)
}

// isolatedSpace reports whether text[i] is a space with no space on either
// side. The ends of text count as non-space.
func isolatedSpace(text string, i int) bool {
	if text[i] != ' ' {
		return false
	}
	if i > 0 && text[i-1] == ' ' {
		return false
	}
	if i < len(text)-1 && text[i+1] == ' ' {
		return false
	}
	return true
}

// step is the transition handler. The current page is shown before the
// page offset moves.
func (s *Slider) step() [NumDigits]byte {
	w := s.window()
	if !s.paused {
		s.page += NumDigits
	}
	if s.page > len(s.seq)-NumDigits {
		if s.continuous {
			s.page = 0
		} else {
			s.page -= NumDigits
			s.paused = true
		}
	}
	return w
}

func (s *Slider) window() [NumDigits]byte {
	var w [NumDigits]byte
	copy(w[:], s.seq[s.page:s.page+NumDigits])
	return w
}

// Sequence returns the working sequence, including padding.
func (s *Slider) Sequence() string {
	return string(s.seq)
}

// Page returns the offset of the page shown on the next tick.
func (s *Slider) Page() int {
	var p int
	s.dev.sched.Critical(func() { p = s.page })
	return p
}

// Paused reports whether paging is paused. A one-shot slider pauses itself
// on its last page.
func (s *Slider) Paused() bool {
	var p bool
	s.dev.sched.Critical(func() { p = s.paused })
	return p
}

// TogglePause pauses or resumes paging.
func (s *Slider) TogglePause() {
	s.dev.sched.Critical(func() { s.paused = !s.paused })
}

// Pause stops paging. The display keeps refreshing.
func (s *Slider) Pause() {
	s.dev.sched.Critical(func() { s.paused = true })
}

// Resume continues paging.
func (s *Slider) Resume() {
	s.dev.sched.Critical(func() { s.paused = false })
}

// Restart goes back to the first page and resumes paging.
func (s *Slider) Restart() {
	s.dev.sched.Critical(func() {
		s.page = 0
		s.paused = false
		s.dev.show(s, s.window())
	})
}

// SetRate changes the paging rate.
func (s *Slider) SetRate(rate physic.Frequency) error {
	return s.dev.setRate(s, clock.Transition, rate)
}
