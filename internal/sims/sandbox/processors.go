package sandbox

import (
	"image"

	"sandpit/internal/core"
	"sandpit/internal/field"
	"sandpit/internal/particle"
)

// destroyed is returned by a processor when the particle left the grid.
var destroyed = image.Pt(-1, -1)

// motion bundles what a processor may read or draw from during one call.
type motion struct {
	f      *field.Field
	rng    *core.RNG
	params *Params
}

// processor computes the destination of the particle at pos. It returns pos to
// stay, destroyed to vanish, or any in-grid position holding a displaceable cell.
// It may transmute the particle in place.
type processor func(m motion, pos image.Point, c *field.Cell) image.Point

// processors is indexed by type ordinal. Types without an entry are static.
var processors = [particle.Count]processor{
	particle.Water:   processFluid,
	particle.Lava:    processFluid,
	particle.Sand:    processGranular,
	particle.RedSand: processGranular,
	particle.Steam:   processSteam,
}

// upwardOrders are the six permutations of the up-left, up and up-right
// offsets; steam picks one per step.
var upwardOrders = [6][3]int{
	{-1, 0, 1},
	{-1, 1, 0},
	{0, -1, 1},
	{0, 1, -1},
	{1, -1, 0},
	{1, 0, -1},
}

// displaceable reports whether a particle of type t may move into p: the cell
// holds a fluid of a different type.
func displaceable(f *field.Field, p image.Point, t particle.Type) bool {
	other := f.TypeAt(p)
	return other != t && other.IsFluid()
}

func sides(rng *core.RNG) [2]int {
	if rng.Bool() {
		return [2]int{-1, 1}
	}
	return [2]int{1, -1}
}

// processFluid falls, or slides sideways for a few attempts, over one or two
// steps. The slide direction prefers the last horizontal move.
func processFluid(m motion, pos image.Point, c *field.Cell) image.Point {
	w, h := m.f.Width(), m.f.Height()
	drift := 1
	if pos.X < c.Prev.X {
		drift = -1
	}

	cur := pos
	steps := m.rng.Between(m.params.FluidStepsMin, m.params.FluidStepsMax)
	for i := 0; i < steps; i++ {
		if cur.Y == h-1 {
			return destroyed
		}
		below := image.Pt(cur.X, cur.Y+1)
		if displaceable(m.f, below, c.Type) {
			cur = below
			continue
		}

		attempts := m.rng.Between(m.params.SlideAttemptsMin, m.params.SlideAttemptsMax)
		for j := 0; j < attempts; j++ {
			if displaceable(m.f, image.Pt(cur.X, cur.Y+1), c.Type) {
				break
			}
			order := [2]int{drift, -drift}
			if !m.rng.Chance(m.params.DriftBias) {
				order = [2]int{-drift, drift}
			}
			for _, dx := range order {
				next := image.Pt(cur.X+dx, cur.Y)
				if next.X < 0 || next.X >= w {
					return destroyed
				}
				if displaceable(m.f, next, c.Type) {
					cur = next
					break
				}
			}
		}
	}
	return cur
}

// processGranular falls straight down or, when blocked, into one of the two
// cells diagonally below.
func processGranular(m motion, pos image.Point, c *field.Cell) image.Point {
	w, h := m.f.Width(), m.f.Height()
	if pos.Y == h-1 {
		return destroyed
	}
	below := image.Pt(pos.X, pos.Y+1)
	if displaceable(m.f, below, c.Type) {
		return below
	}
	for _, dx := range sides(m.rng) {
		next := image.Pt(pos.X+dx, pos.Y+1)
		if next.X < 0 || next.X >= w {
			return destroyed
		}
		if displaceable(m.f, next, c.Type) {
			return next
		}
	}
	return pos
}

// processSteam rises, spreads sideways when capped and condenses once old.
func processSteam(m motion, pos image.Point, c *field.Cell) image.Point {
	if c.Age >= m.params.SteamLifetime {
		m.f.Transmute(pos, particle.Water)
		return pos
	}
	w := m.f.Width()
	if pos.Y == 0 {
		return destroyed
	}
	for _, dx := range upwardOrders[m.rng.IntN(len(upwardOrders))] {
		next := image.Pt(pos.X+dx, pos.Y-1)
		if next.X < 0 || next.X >= w {
			return destroyed
		}
		if displaceable(m.f, next, c.Type) {
			return next
		}
	}
	for _, dx := range sides(m.rng) {
		next := image.Pt(pos.X+dx, pos.Y)
		if next.X < 0 || next.X >= w {
			return destroyed
		}
		if displaceable(m.f, next, c.Type) {
			return next
		}
	}
	return pos
}
