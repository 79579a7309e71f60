package sandbox

import "strconv"

// Params holds the movement tunables.
type Params struct {
	// SteamLifetime is the age in seconds at which steam condenses into water.
	SteamLifetime float64 `yaml:"steam_lifetime"`

	FluidStepsMin    int `yaml:"fluid_steps_min"`
	FluidStepsMax    int `yaml:"fluid_steps_max"`
	SlideAttemptsMin int `yaml:"slide_attempts_min"`
	SlideAttemptsMax int `yaml:"slide_attempts_max"`
	// DriftBias is the chance a sliding fluid keeps its previous direction.
	DriftBias float64 `yaml:"drift_bias"`
}

// Config controls the sandbox world.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	Seed int64 `yaml:"seed"`

	// StepSeconds is the elapsed time fed to Tick by Step.
	StepSeconds float64 `yaml:"step_seconds"`
	// Scene names the layout painted on every reset. Empty leaves the field clear.
	Scene string `yaml:"scene"`

	Params Params `yaml:"params"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:       240,
		Height:      160,
		Seed:        1337,
		StepSeconds: 1.0 / 60.0,
		Params:      DefaultParams(),
	}
}

// DefaultParams returns the stock movement tunables.
func DefaultParams() Params {
	return Params{
		SteamLifetime:    5.0,
		FluidStepsMin:    1,
		FluidStepsMax:    2,
		SlideAttemptsMin: 3,
		SlideAttemptsMax: 5,
		DriftBias:        0.75,
	}
}

// normalize repairs inverted ranges and out-of-range values.
func (p *Params) normalize() {
	if p.FluidStepsMin < 1 {
		p.FluidStepsMin = 1
	}
	if p.FluidStepsMax < p.FluidStepsMin {
		p.FluidStepsMax = p.FluidStepsMin
	}
	if p.SlideAttemptsMin < 0 {
		p.SlideAttemptsMin = 0
	}
	if p.SlideAttemptsMax < p.SlideAttemptsMin {
		p.SlideAttemptsMax = p.SlideAttemptsMin
	}
	p.DriftBias = clamp(p.DriftBias, 0, 1)
	if p.SteamLifetime < 0 {
		p.SteamLifetime = 0
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["step_seconds"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.StepSeconds = parsed
		}
	}
	if v, ok := cfg["scene"]; ok {
		c.Scene = v
	}
	if v, ok := cfg["steam_lifetime"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.SteamLifetime = parsed
		}
	}
	if v, ok := cfg["fluid_steps_min"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Params.FluidStepsMin = parsed
		}
	}
	if v, ok := cfg["fluid_steps_max"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Params.FluidStepsMax = parsed
		}
	}
	if v, ok := cfg["slide_attempts_min"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Params.SlideAttemptsMin = parsed
		}
	}
	if v, ok := cfg["slide_attempts_max"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Params.SlideAttemptsMax = parsed
		}
	}
	if v, ok := cfg["drift_bias"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.DriftBias = parsed
		}
	}
	c.Params.normalize()
	return c
}

// Map is the inverse of FromMap: it renders every setting under the keys
// FromMap reads.
func (c Config) Map() map[string]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return map[string]string{
		"w":                  strconv.Itoa(c.Width),
		"h":                  strconv.Itoa(c.Height),
		"seed":               strconv.FormatInt(c.Seed, 10),
		"step_seconds":       f(c.StepSeconds),
		"scene":              c.Scene,
		"steam_lifetime":     f(c.Params.SteamLifetime),
		"fluid_steps_min":    strconv.Itoa(c.Params.FluidStepsMin),
		"fluid_steps_max":    strconv.Itoa(c.Params.FluidStepsMax),
		"slide_attempts_min": strconv.Itoa(c.Params.SlideAttemptsMin),
		"slide_attempts_max": strconv.Itoa(c.Params.SlideAttemptsMax),
		"drift_bias":         f(c.Params.DriftBias),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
