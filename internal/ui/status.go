package ui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"sandpit/internal/core"
	"sandpit/internal/particle"
)

// World is what the HUD reads from a running sandbox.
type World interface {
	core.Sim
	Palette() []color.RGBA
	Counts() [particle.Count]int
}

// Status is the live readout shown under the HUD title.
type Status struct {
	Ticks     uint64
	Paused    bool
	Particles int
	Awake     int
	// Bundles counts cached emitter bundles; Firing those that emitted.
	Bundles int
	Firing  int
	// TickTime is the wall time spent in the last tick.
	TickTime time.Duration
	Overlays []string
}

// Lines formats the status for display, one fact per line.
func (s Status) Lines() []string {
	tick := "Tick " + humanize.Comma(int64(s.Ticks))
	if s.Paused {
		tick += " (paused)"
	}
	lines := []string{
		tick,
		fmt.Sprintf("Particles %s, awake %s", humanize.Comma(int64(s.Particles)), humanize.Comma(int64(s.Awake))),
	}
	if s.Bundles > 0 {
		lines = append(lines, fmt.Sprintf("Bundles %d, %d firing", s.Bundles, s.Firing))
	}
	if s.TickTime > 0 {
		rate := float64(s.Awake) / s.TickTime.Seconds()
		lines = append(lines, "Throughput "+humanize.SIWithDigits(rate, 1, "cells/s"))
	}
	if len(s.Overlays) > 0 {
		lines = append(lines, "Overlay "+strings.Join(s.Overlays, ", "))
	}
	return lines
}
