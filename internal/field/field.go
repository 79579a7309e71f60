// Package field holds the particle grid: one Cell per slot, a render color cache
// kept in step with every write, and a mutation clock that lets derived caches
// notice edits.
package field

import (
	"fmt"
	"image"
	"image/color"

	"sandpit/internal/core"
	"sandpit/internal/particle"
)

// Cell is one grid slot.
type Cell struct {
	Type particle.Type
	// Prev is where the particle sat one tick ago; its horizontal offset to the
	// current position biases fluid drift.
	Prev  image.Point
	Age   float64
	Awake bool
}

// Mutation records the most recent Set.
type Mutation struct {
	Clock    uint64
	Type     particle.Type
	Replaced particle.Type
}

// Field is a fixed-size grid of cells. It is not safe for concurrent use; a tick
// owns it exclusively and renderers read it between ticks.
type Field struct {
	w, h   int
	cells  []Cell
	colors []color.RGBA
	clock  uint64
	last   Mutation
}

// Adjacent lists the orthogonal neighbour offsets.
var Adjacent = [4]image.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// New allocates a w*h field of background cells.
func New(w, h int) *Field {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("field: invalid size %dx%d", w, h))
	}
	f := &Field{
		w:      w,
		h:      h,
		cells:  make([]Cell, w*h),
		colors: make([]color.RGBA, w*h),
	}
	bg := particle.Background.Color()
	for i := range f.cells {
		f.cells[i] = Cell{Type: particle.Background, Prev: image.Pt(i%w, i/w)}
		f.colors[i] = bg
	}
	return f
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.w }

// Height returns the number of rows.
func (f *Field) Height() int { return f.h }

// Size reports the grid dimensions.
func (f *Field) Size() core.Size { return core.Size{W: f.w, H: f.h} }

// InBounds reports whether p lies inside the grid.
func (f *Field) InBounds(p image.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < f.w && p.Y < f.h
}

func (f *Field) index(x, y int) int {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		panic(fmt.Sprintf("field: (%d,%d) outside %dx%d", x, y, f.w, f.h))
	}
	return y*f.w + x
}

// Get returns a copy of the cell at (x, y).
func (f *Field) Get(x, y int) Cell { return f.cells[f.index(x, y)] }

// Set stores c at (x, y), refreshes its color and records the mutation.
func (f *Field) Set(x, y int, c Cell) {
	i := f.index(x, y)
	replaced := f.cells[i].Type
	f.cells[i] = c
	f.colors[i] = c.Type.Color()
	f.clock++
	f.last = Mutation{Clock: f.clock, Type: c.Type, Replaced: replaced}
}

// Paint places a fresh particle of type t at (x, y) and wakes its neighbours,
// which may now be free to move or be blocked. It is the entry point for brushes
// and other tools.
func (f *Field) Paint(x, y int, t particle.Type) {
	f.Set(x, y, Cell{Type: t, Prev: image.Pt(x, y), Awake: true})
	f.WakeAround(image.Pt(x, y))
}

// TypeAt returns the type at p.
func (f *Field) TypeAt(p image.Point) particle.Type { return f.cells[f.index(p.X, p.Y)].Type }

// Ref returns the cell at p for in-place mutation. Callers that change Type must
// follow with UpdateColor.
func (f *Field) Ref(p image.Point) *Cell { return &f.cells[f.index(p.X, p.Y)] }

// UpdateColor recomputes the cached color at (x, y) from its current type.
func (f *Field) UpdateColor(x, y int) {
	i := f.index(x, y)
	f.colors[i] = f.cells[i].Type.Color()
}

// Transmute changes the particle at p into t in place: the age restarts, the
// cell wakes and its color follows.
func (f *Field) Transmute(p image.Point, t particle.Type) {
	i := f.index(p.X, p.Y)
	c := &f.cells[i]
	c.Type = t
	c.Age = 0
	c.Awake = true
	f.colors[i] = t.Color()
}

// Swap exchanges the cells at a and b, colors included.
func (f *Field) Swap(a, b image.Point) {
	i, j := f.index(a.X, a.Y), f.index(b.X, b.Y)
	f.cells[i], f.cells[j] = f.cells[j], f.cells[i]
	f.colors[i], f.colors[j] = f.colors[j], f.colors[i]
}

// Clear replaces the cell at p with a background cell.
func (f *Field) Clear(p image.Point) {
	i := f.index(p.X, p.Y)
	f.cells[i] = Cell{Type: particle.Background, Prev: p}
	f.colors[i] = particle.Background.Color()
}

// Wake marks the non-background cell at p awake. Out-of-grid points are ignored.
func (f *Field) Wake(p image.Point) {
	if !f.InBounds(p) {
		return
	}
	c := &f.cells[p.Y*f.w+p.X]
	if c.Type != particle.Background {
		c.Awake = true
	}
}

// WakeAround wakes the four neighbours of p.
func (f *Field) WakeAround(p image.Point) {
	for _, d := range Adjacent {
		f.Wake(p.Add(d))
	}
}

// ColorAt returns the cached render color at (x, y).
func (f *Field) ColorAt(x, y int) color.RGBA { return f.colors[f.index(x, y)] }

// Colors exposes the color cache in row-major order. Callers must treat it as
// read-only.
func (f *Field) Colors() []color.RGBA { return f.colors }

// LastMutation returns the record of the most recent Set.
func (f *Field) LastMutation() Mutation { return f.last }

// Reset returns every cell to background. The reset counts as one mutation of
// the background type.
func (f *Field) Reset() {
	bg := particle.Background.Color()
	for i := range f.cells {
		f.cells[i] = Cell{Type: particle.Background, Prev: image.Pt(i%f.w, i/f.w)}
		f.colors[i] = bg
	}
	f.clock++
	f.last = Mutation{Clock: f.clock, Type: particle.Background, Replaced: particle.Background}
}

// Count returns the number of cells holding t.
func (f *Field) Count(t particle.Type) int {
	n := 0
	for i := range f.cells {
		if f.cells[i].Type == t {
			n++
		}
	}
	return n
}
