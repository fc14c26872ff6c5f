// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/flavioheleno/sevenseg/clock"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Mode kinds.
const (
	KindText      = "text"
	KindNumber    = "number"
	KindCharacter = "character"
	KindCounter   = "counter"
	KindCarousel  = "carousel"
	KindSlider    = "slider"
)

// Defaults applied by Normalize.
const (
	DefaultPolarity     = "cathode"
	DefaultDirection    = "UP"
	DefaultRefreshHz    = 800
	DefaultTransitionHz = 2
)

// Config is the demo configuration.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Refresh ClockConfig   `yaml:"refresh"`
	Mode    ModeConfig    `yaml:"mode"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Polarity     string     `yaml:"polarity"` // cathode, anode
	Pins         PinsConfig `yaml:"pins"`
	DecimalPoint bool       `yaml:"decimal_point"`
}

type PinsConfig struct {
	Digits   []string `yaml:"digits"`   // left to right, "" leaves a digit unbound
	Segments []string `yaml:"segments"` // A..G
	DP       string   `yaml:"dp"`
}

// ---- CLOCK ----

type ClockConfig struct {
	Clock  string  `yaml:"clock"` // SysTick, WKT, MRT0, MRT1, CTIMER0
	RateHz float64 `yaml:"rate_hz"`
}

// Source returns the parsed clock name.
func (c ClockConfig) Source() (clock.Source, error) {
	return clock.ParseSource(c.Clock)
}

// Rate returns RateHz as a frequency.
func (c ClockConfig) Rate() physic.Frequency {
	return physic.Frequency(c.RateHz * float64(physic.Hertz))
}

// ---- MODE ----

type ModeConfig struct {
	Kind string `yaml:"kind"`

	Text           string `yaml:"text"`   // text, character, carousel, slider
	Number         int    `yaml:"number"` // number
	Continuous     bool   `yaml:"continuous"`
	Pad            bool   `yaml:"pad"`
	CollapseSpaces bool   `yaml:"collapse_spaces"` // slider only

	Transition ClockConfig   `yaml:"transition"` // counter, carousel, slider
	Counter    CounterConfig `yaml:"counter"`
}

type CounterConfig struct {
	Start     int    `yaml:"start"`
	Direction string `yaml:"direction"` // UP, DOWN
	Increment int    `yaml:"increment"`
	Stop      *int   `yaml:"stop"` // optional
}

// Animated reports whether the mode needs a transition or counting clock.
func (m ModeConfig) Animated() bool {
	switch m.Kind {
	case KindCounter, KindCarousel, KindSlider:
		return true
	}
	return false
}

// Load reads and parses a YAML configuration file, then validates and
// normalizes it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load for configuration already in memory.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	Normalize(&cfg)
	return &cfg, nil
}
