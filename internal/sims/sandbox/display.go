package sandbox

import (
	"image"
	"image/color"

	"sandpit/internal/particle"
)

var sandboxPalette = buildPalette()

// Palette maps the ordinals returned by Cells to their render colors.
func (w *World) Palette() []color.RGBA {
	return sandboxPalette
}

func buildPalette() []color.RGBA {
	palette := make([]color.RGBA, particle.Count)
	for _, t := range particle.All() {
		palette[t] = t.Color()
	}
	return palette
}

// AwakeMask marks cells of moving types that will be scheduled next tick.
func (w *World) AwakeMask() []float32 {
	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			v := float32(0)
			c := w.field.Ref(image.Pt(x, y))
			if c.Awake && processors[c.Type] != nil {
				v = 1
			}
			w.awakeMask[y*w.w+x] = v
		}
	}
	return w.awakeMask
}

// BundleMask marks cells covered by cached emitter bundles: firing bundles at
// full strength, idle ones at half.
func (w *World) BundleMask() []float32 {
	for i := range w.bundleMask {
		w.bundleMask[i] = 0
	}
	for _, b := range w.power.Bundles() {
		v := float32(0.5)
		if b.Firing {
			v = 1
		}
		for _, p := range b.Cells {
			if p.X < w.w && p.Y < w.h {
				w.bundleMask[p.Y*w.w+p.X] = v
			}
		}
	}
	return w.bundleMask
}

// Counts returns the number of cells of every type, indexed by ordinal.
func (w *World) Counts() [particle.Count]int {
	var counts [particle.Count]int
	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			counts[w.field.TypeAt(image.Pt(x, y))]++
		}
	}
	return counts
}
