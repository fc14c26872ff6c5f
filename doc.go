// Package sevenseg drives a 4-digit 7-segment display by multiplexing GPIO pins.
//
// Only one digit is lit at a time. A refresh source lights the next digit on
// every tick, fast enough that all four appear lit. A second, slower source
// animates the content: a counter, a scrolling carousel or a paged slider.
// Both sources are periodic interrupts bound through a clock.Scheduler.
//
// # Display Characteristics
//
// - 4 digit positions, 7 segments (A..G) and an optional decimal point
// - Common cathode or common anode polarity
// - Digits 0-9, letters A-Z (lower case shapes where needed), '-', '=', '_' and space
// - Unsupported characters are shown blank
//
// # Hardware Connection
//
// Each segment and each digit uses one GPIO pin:
//
//	Display Pin → System Pin
//	A..G        → GPIO (7 pins, through current limiting resistors)
//	DP          → Optional: GPIO
//	D1..D4      → GPIO (digit enable, left to right, usually via transistors)
//
// Digit pins left nil are skipped, so displays with fewer than 4 digits work.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"github.com/flavioheleno/sevenseg"
//		"github.com/flavioheleno/sevenseg/clock"
//		"periph.io/x/conn/v3/gpio"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/physic"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		pin := func(n string) gpio.PinOut { return gpioreg.ByName(n) }
//		sched := clock.NewScheduler(clock.HostTimers(), nil)
//		dev, _ := sevenseg.New(sched, &sevenseg.Opts{
//			Digits:   []gpio.PinOut{pin("GPIO17"), pin("GPIO27"), pin("GPIO22"), pin("GPIO23")},
//			Segments: []gpio.PinOut{pin("GPIO5"), pin("GPIO6"), pin("GPIO13"), pin("GPIO19"), pin("GPIO26"), pin("GPIO20"), pin("GPIO21")},
//			DP:       pin("GPIO16"),
//		})
//		defer dev.Halt()
//
//		dev.StartCarousel(sevenseg.CarouselConfig{
//			Text:             "HELLO 2024",
//			Continuous:       true,
//			Pad:              true,
//			TransitionSource: clock.WKT,
//			TransitionRate:   3 * physic.Hertz,
//			RefreshSource:    clock.MRT1,
//			RefreshRate:      800 * physic.Hertz,
//		})
//		select {}
//	}
//
// # Display Modes
//
// Exactly one mode owns the display at a time. Starting a mode replaces the
// previous one together with its clock bindings.
//
// ## Static
//
// ShowText and ShowNumber show 4 fixed characters; ShowCharacter lights all
// digits with one character and needs no clock at all.
//
// ## Counter
//
// StartCounter counts up or down by a fixed increment on every counting tick.
// The raw count is unbounded; the display shows it folded into 0000..9999. An
// optional stop value pauses the counter when the raw count reaches it.
//
// ## Carousel
//
// StartCarousel scrolls text one character per transition tick. A continuous
// carousel loops with a blank between the end and the start of the text; a
// one-shot carousel stops once the last 4 characters are shown.
//
// ## Slider
//
// StartSlider swaps whole pages of 4 characters per transition tick. With
// CollapseSpaces, single spaces are dropped so words pack into pages:
//
//	"A B C D  E F  G" → "ABCD  EF  G "
//
// A one-shot slider pauses itself on its last page.
//
// # Clock Sources
//
// The refresh source must differ from the transition or counting source.
// A configuration that shares them is rejected with clock.ErrSourceConflict
// and the display keeps showing what it showed before.
package sevenseg
