package config

import "time"

// UIConfig holds terminal interface configuration.
type UIConfig struct {
	// Theme is "dark", "light" or "auto" (detect from the terminal background).
	Theme string `yaml:"theme"`

	// FrameInterval is the render and scheduler tick period.
	FrameInterval string `yaml:"frame_interval"`

	// Mouse enables press-and-hold with the mouse. Space toggles a hold either way.
	Mouse bool `yaml:"mouse"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Theme:         "auto",
		FrameInterval: "16ms",
		Mouse:         true,
	}
}

// GetFrameInterval returns the frame period.
func (c UIConfig) GetFrameInterval() time.Duration {
	return parseDuration(c.FrameInterval, 16*time.Millisecond)
}
