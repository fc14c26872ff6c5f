// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Display.Polarity == "" {
		cfg.Display.Polarity = DefaultPolarity
	}
	if cfg.Refresh.RateHz == 0 {
		cfg.Refresh.RateHz = DefaultRefreshHz
	}

	m := &cfg.Mode
	if m.Animated() && m.Transition.RateHz == 0 {
		m.Transition.RateHz = DefaultTransitionHz
	}
	if m.Kind == KindCounter && m.Counter.Direction == "" {
		m.Counter.Direction = DefaultDirection
	}
}
