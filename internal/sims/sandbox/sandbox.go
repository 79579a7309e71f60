// Package sandbox drives the falling-sand world: it schedules awake particles,
// moves them, resolves contact reactions and then refreshes the power network.
package sandbox

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/charmbracelet/log"

	"sandpit/internal/core"
	"sandpit/internal/field"
	"sandpit/internal/particle"
	"sandpit/internal/power"
	"sandpit/internal/scene"
)

// TickStats summarizes one tick.
type TickStats struct {
	// Particles counts cells of a moving type at the start of the tick.
	Particles int
	// Awake counts the cells that entered the work set.
	Awake int
}

// World owns one field and everything that updates it. It is not safe for
// concurrent use.
type World struct {
	cfg Config

	w, h int

	field  *field.Field
	power  *power.Engine
	rng    *core.RNG
	logger *log.Logger
	scene  *scene.Scene

	pending *core.Mask
	order   []image.Point

	display    []uint8
	awakeMask  []float32
	bundleMask []float32

	ticks uint64
	stats TickStats
}

// New returns a sandbox with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns an empty world. cfg.Scene is not loaded; use Open for
// that.
func NewWithConfig(cfg Config) *World {
	cfg.Params.normalize()
	logger := log.New(io.Discard)
	total := cfg.Width * cfg.Height
	return &World{
		cfg:        cfg,
		w:          cfg.Width,
		h:          cfg.Height,
		field:      field.New(cfg.Width, cfg.Height),
		power:      power.New(logger),
		rng:        core.NewRNG(cfg.Seed),
		logger:     logger,
		pending:    core.NewMask(cfg.Width, cfg.Height),
		order:      make([]image.Point, 0, total/4),
		display:    make([]uint8, total),
		awakeMask:  make([]float32, total),
		bundleMask: make([]float32, total),
	}
}

// Open builds a world for cfg, loading cfg.Scene when set, and resets it. A
// scene that declares its own size overrides cfg.Width and cfg.Height. A nil
// logger discards output.
func Open(cfg Config, logger *log.Logger) (*World, error) {
	var sc *scene.Scene
	if cfg.Scene != "" {
		s, err := scene.Load(cfg.Scene)
		if err != nil {
			return nil, fmt.Errorf("sandbox: %w", err)
		}
		if s.Width > 0 && s.Height > 0 {
			cfg.Width, cfg.Height = s.Width, s.Height
		}
		sc = s
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("sandbox: invalid field size %dx%d", cfg.Width, cfg.Height)
	}
	w := NewWithConfig(cfg)
	w.SetLogger(logger)
	w.scene = sc
	w.Reset(0)
	return w, nil
}

// SetLogger routes world and power engine diagnostics to l.
func (w *World) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	w.logger = l
	w.power.SetLogger(l)
}

// Scene returns the active scene, if any.
func (w *World) Scene() *scene.Scene { return w.scene }

// Name returns the simulation identifier.
func (w *World) Name() string { return "sandbox" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Field exposes the grid for painting and inspection between ticks.
func (w *World) Field() *field.Field { return w.field }

// Power exposes the power engine for diagnostics.
func (w *World) Power() *power.Engine { return w.power }

// Stats returns the statistics of the last tick.
func (w *World) Stats() TickStats { return w.stats }

// Ticks returns the number of ticks since the last reset.
func (w *World) Ticks() uint64 { return w.ticks }

// Colors exposes the field's render color cache.
func (w *World) Colors() []color.RGBA { return w.field.Colors() }

// Cells returns the particle type ordinal of every cell.
func (w *World) Cells() []uint8 {
	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			w.display[y*w.w+x] = uint8(w.field.TypeAt(image.Pt(x, y)))
		}
	}
	return w.display
}

// Paint places a particle of type t at (x, y) and wakes its neighbours.
func (w *World) Paint(x, y int, t particle.Type) { w.field.Paint(x, y, t) }

// Reset clears the field, reseeds the RNG and repaints the scene. A zero seed
// falls back to the configured seed.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng.Seed(effective)
	w.field.Reset()
	w.power.Invalidate()
	w.pending.Clear()
	w.order = w.order[:0]
	w.ticks = 0
	w.stats = TickStats{}

	if w.scene != nil {
		n := w.scene.Apply(w.field, effective)
		w.logger.Debug("applied scene", "scene", w.scene.Name, "cells", n)
	}
	w.logger.Debug("reset sandbox", "seed", effective, "size", fmt.Sprintf("%dx%d", w.w, w.h))
}

// Step advances the world by one tick of the configured length.
func (w *World) Step() {
	w.Tick(w.cfg.StepSeconds)
}

// The registered factory logs through the default charmbracelet logger.
func init() {
	core.Register("sandbox", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		w, err := Open(c, log.Default())
		if err != nil {
			log.Warn("scene unavailable, starting empty", "scene", c.Scene, "err", err)
			c.Scene = ""
			w = NewWithConfig(c)
			w.SetLogger(log.Default())
		}
		return w
	})
}
