package app

import "flag"

// Config carries the GUI settings parsed from the command line.
type Config struct {
	Sim        string
	Scale      int
	TPS        int
	Seed       int64
	Scene      string
	ConfigPath string
	HUDWidth   int
	Radius     int
	LogLevel   string
}

// NewConfig returns the default GUI settings.
func NewConfig() Config {
	return Config{
		Sim:      "sandbox",
		Scale:    4,
		TPS:      60,
		HUDWidth: 260,
		Radius:   2,
		LogLevel: "info",
	}
}

// Bind registers the settings as flags on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "screen pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "target ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 uses the configured seed)")
	fs.StringVar(&c.Scene, "scene", c.Scene, "scene name or .yaml path (overrides the config file)")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "sandbox config file")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels (0 hides it)")
	fs.IntVar(&c.Radius, "radius", c.Radius, "initial brush radius")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
}

// Normalize repairs values the GUI cannot use.
func (c *Config) Normalize() {
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.TPS <= 0 {
		c.TPS = 60
	}
	if c.HUDWidth < 0 {
		c.HUDWidth = 0
	}
	if c.Radius < 0 {
		c.Radius = 0
	}
	if c.Radius > maxRadius {
		c.Radius = maxRadius
	}
}

const maxRadius = 24
