package sevenseg

import (
	"fmt"

	"github.com/flavioheleno/sevenseg/glyph"
	"periph.io/x/conn/v3/gpio"
)

// onRefresh is the refresh handler. Only the first failure of a run is logged.
func (d *Dev) onRefresh() {
	err := d.refresh()
	if err != nil && d.refreshErr == nil {
		d.log.Warn("sevenseg: refresh failed", "digit", d.lit, "error", err)
	}
	d.refreshErr = err
}

// refresh lights the next digit position: all digits off, segments and
// decimal point for the new position, then its digit on.
func (d *Dev) refresh() error {
	if err := d.clearDigits(); err != nil {
		return err
	}
	d.lit = (d.lit + 1) % NumDigits
	if err := d.drive(glyph.Encode(d.buf[d.lit])); err != nil {
		return err
	}
	return d.enableDigit(d.lit)
}

// segmentLevel returns the level that lights (or darkens) a segment.
func (d *Dev) segmentLevel(on bool) gpio.Level {
	if d.polarity == CommonAnode {
		on = !on
	}
	return gpio.Level(on)
}

// digitLevel returns the level that enables (or disables) a digit.
func (d *Dev) digitLevel(on bool) gpio.Level {
	if d.polarity == CommonCathode {
		on = !on
	}
	return gpio.Level(on)
}

// drive sets every bound segment pin from m, then the decimal point.
func (d *Dev) drive(m glyph.Mask) error {
	for i, p := range d.segs {
		if p == nil {
			continue
		}
		if err := p.Out(d.segmentLevel(m.Segment(i))); err != nil {
			return fmt.Errorf("sevenseg: segment %c: %w", 'A'+byte(i), err)
		}
	}
	return d.driveDP()
}

func (d *Dev) driveDP() error {
	if d.dp == nil {
		return nil
	}
	if err := d.dp.Out(d.segmentLevel(d.dpOn)); err != nil {
		return fmt.Errorf("sevenseg: decimal point: %w", err)
	}
	return nil
}

func (d *Dev) setDigit(i int, on bool) error {
	p := d.digits[i]
	if p == nil {
		return nil
	}
	if err := p.Out(d.digitLevel(on)); err != nil {
		return fmt.Errorf("sevenseg: digit %d: %w", i, err)
	}
	return nil
}

func (d *Dev) enableDigit(i int) error {
	return d.setDigit(i, true)
}

func (d *Dev) clearDigits() error {
	for i := range d.digits {
		if err := d.setDigit(i, false); err != nil {
			return err
		}
	}
	return nil
}

// showAll lights every bound digit with the same pattern.
func (d *Dev) showAll(m glyph.Mask) error {
	if err := d.clearDigits(); err != nil {
		return err
	}
	if err := d.drive(m); err != nil {
		return err
	}
	for i := range d.digits {
		if err := d.enableDigit(i); err != nil {
			return err
		}
	}
	return nil
}

// idle puts every pin in its off state, keeping the decimal point setting.
func (d *Dev) idle() error {
	if err := d.clearDigits(); err != nil {
		return err
	}
	return d.drive(glyph.Blank)
}
