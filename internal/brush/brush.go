// Package brush rasterizes painting strokes onto a particle canvas.
package brush

import (
	"image"

	"sandpit/internal/particle"
)

// Canvas is the write surface a brush paints on. *field.Field satisfies it.
type Canvas interface {
	Width() int
	Height() int
	TypeAt(p image.Point) particle.Type
	Paint(x, y int, t particle.Type)
}

// Options shape a stroke.
type Options struct {
	// Radius grows the dab to a square of side 2*Radius+1.
	Radius int
	// Only, when set, restricts writes to cells currently holding that type.
	Only *particle.Type
}

// OnlyOver returns Options that only overwrite cells of type t.
func OnlyOver(radius int, t particle.Type) Options {
	return Options{Radius: radius, Only: &t}
}

// Dab paints a square centred on at, clipped to the canvas. It returns the
// number of cells written.
func Dab(c Canvas, at image.Point, t particle.Type, opt Options) int {
	r := opt.Radius
	if r < 0 {
		r = 0
	}
	area := image.Rect(at.X-r, at.Y-r, at.X+r+1, at.Y+r+1).Intersect(image.Rect(0, 0, c.Width(), c.Height()))
	n := 0
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if opt.Only != nil && c.TypeAt(image.Pt(x, y)) != *opt.Only {
				continue
			}
			c.Paint(x, y, t)
			n++
		}
	}
	return n
}

// Line paints dabs along the Bresenham line from a to b, both ends included.
// It returns the number of cell writes.
func Line(c Canvas, a, b image.Point, t particle.Type, opt Options) int {
	n := 0
	Walk(a, b, func(p image.Point) {
		n += Dab(c, p, t, opt)
	})
	return n
}

// Walk visits every point of the Bresenham line from a to b in order.
func Walk(a, b image.Point, visit func(image.Point)) {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx - dy
	x, y := a.X, a.Y
	for {
		visit(image.Pt(x, y))
		if x == b.X && y == b.Y {
			return
		}
		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
