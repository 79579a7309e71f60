package sandbox

import (
	"image"

	"sandpit/internal/field"
	"sandpit/internal/particle"
)

// interaction mutates two adjacent cells. a holds the first type of the table
// entry, b the second.
type interaction func(f *field.Field, a, b image.Point)

// interactions lists each unordered pair once; resolve tries both orders.
var interactions = [particle.Count][particle.Count]interaction{
	particle.Lava:  {particle.Water: lavaMeetsWater},
	particle.Water: {particle.Magma: waterMeetsMagma},
}

// resolve runs the handler registered for the types at p and q, if any, and
// reports whether one ran.
func resolve(f *field.Field, p, q image.Point) bool {
	a, b := f.TypeAt(p), f.TypeAt(q)
	if h := interactions[a][b]; h != nil {
		h(f, p, q)
		return true
	}
	if h := interactions[b][a]; h != nil {
		h(f, q, p)
		return true
	}
	return false
}

func lavaMeetsWater(f *field.Field, lava, water image.Point) {
	f.Clear(lava)
	f.WakeAround(lava)
	f.Transmute(water, particle.Steam)
}

func waterMeetsMagma(f *field.Field, water, _ image.Point) {
	f.Transmute(water, particle.Steam)
}
