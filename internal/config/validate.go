// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/flavioheleno/sevenseg"
	"github.com/flavioheleno/sevenseg/glyph"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero rates and empty polarity or direction are accepted; Normalize fills them.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// ------------------------------------------------------------
	// DISPLAY WIRING
	// ------------------------------------------------------------

	d := cfg.Display
	if d.Polarity != "" {
		if _, err := sevenseg.ParsePolarity(d.Polarity); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}
	if len(d.Pins.Digits) > sevenseg.NumDigits {
		return fmt.Errorf("display: at most %d digit pins, got %d", sevenseg.NumDigits, len(d.Pins.Digits))
	}
	if len(d.Pins.Segments) > glyph.NumSegments {
		return fmt.Errorf("display: at most %d segment pins, got %d", glyph.NumSegments, len(d.Pins.Segments))
	}

	// a pin name may drive only one line
	owner := make(map[string]string)
	claim := func(name, use string) error {
		if name == "" {
			return nil
		}
		if prev, exists := owner[name]; exists {
			return fmt.Errorf("display: pin %s used for %s and %s", name, prev, use)
		}
		owner[name] = use
		return nil
	}
	for i, n := range d.Pins.Digits {
		if err := claim(n, fmt.Sprintf("digit %d", i+1)); err != nil {
			return err
		}
	}
	for i, n := range d.Pins.Segments {
		if err := claim(n, fmt.Sprintf("segment %c", 'A'+i)); err != nil {
			return err
		}
	}
	if err := claim(d.Pins.DP, "decimal point"); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// CLOCKS
	// ------------------------------------------------------------

	refresh, err := cfg.Refresh.Source()
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if cfg.Refresh.RateHz < 0 {
		return fmt.Errorf("refresh: rate_hz must not be negative")
	}

	m := cfg.Mode
	if m.Animated() {
		transition, err := m.Transition.Source()
		if err != nil {
			return fmt.Errorf("mode %s: transition: %w", m.Kind, err)
		}
		if transition == refresh {
			return fmt.Errorf("mode %s: transition clock %s is also the refresh clock", m.Kind, transition)
		}
		if m.Transition.RateHz < 0 {
			return fmt.Errorf("mode %s: transition rate_hz must not be negative", m.Kind)
		}
	}

	// ------------------------------------------------------------
	// MODE
	// ------------------------------------------------------------

	switch m.Kind {
	case KindText, KindNumber, KindCarousel, KindSlider:
	case KindCharacter:
		if len(m.Text) != 1 {
			return fmt.Errorf("mode character: text must be a single character, got %q", m.Text)
		}
	case KindCounter:
		if m.Counter.Direction != "" {
			if _, err := sevenseg.ParseDirection(m.Counter.Direction); err != nil {
				return fmt.Errorf("mode counter: %w", err)
			}
		}
	case "":
		return fmt.Errorf("mode: kind is required")
	default:
		return fmt.Errorf("mode: unknown kind %q", m.Kind)
	}

	return nil
}
