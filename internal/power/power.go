// Package power recomputes which cells of a field are energized. Every update
// starts from an unpowered field, floods power out of unconditional emitters and
// then out of conditional emitters whose bundle is not being driven.
package power

import (
	"image"
	"io"

	"github.com/charmbracelet/log"

	"sandpit/internal/core"
	"sandpit/internal/field"
	"sandpit/internal/particle"
)

// unconditional tags queue entries seeded by emitters that always fire.
const unconditional = -1

// Bundle is a connected group of same-type conditional emitters that fires as
// one unit.
type Bundle struct {
	ID    int
	Type  particle.Type
	Cells []image.Point
	// Inputs holds the distinct types observed next to the bundle during the
	// current update. Power the bundle emitted itself is not recorded.
	Inputs particle.Set
	// Carried holds the types recorded during the previous update's conditional
	// pass. They count towards this update's condition.
	Carried particle.Set
	// Firing is the outcome of the bundle's last condition check.
	Firing bool

	late particle.Set
}

type seed struct {
	p      image.Point
	bundle int
}

// Engine owns the bundle cache and the scratch buffers of the flood fill.
type Engine struct {
	logger *log.Logger

	w, h     int
	bundleOf []int
	bundles  []*Bundle
	built    bool
	builtAt  uint64
	rebuilds int

	seen  *core.Mask
	queue []seed

	// OnRebuild, when set, runs after every bundle rebuild.
	OnRebuild func(bundles int)
}

// New returns an engine. A nil logger discards output.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{logger: logger}
}

// SetLogger replaces the engine's logger. A nil logger discards output.
func (e *Engine) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	e.logger = logger
}

// Late returns the types recorded during the current update's conditional
// pass. They become Carried on the next update.
func (b *Bundle) Late() particle.Set { return b.late }

// Rebuilds reports how many times the bundle cache has been rebuilt.
func (e *Engine) Rebuilds() int { return e.rebuilds }

// Bundles returns the cached bundles indexed by id.
func (e *Engine) Bundles() []*Bundle { return e.bundles }

// BundleAt returns the id of the bundle covering p.
func (e *Engine) BundleAt(p image.Point) (int, bool) {
	if !e.built || p.X < 0 || p.Y < 0 || p.X >= e.w || p.Y >= e.h {
		return 0, false
	}
	id := e.bundleOf[p.Y*e.w+p.X]
	return id, id >= 0
}

// Invalidate forces a rebuild on the next update.
func (e *Engine) Invalidate() { e.built = false }

// Update recomputes the powered state of every cell in f.
func (e *Engine) Update(f *field.Field) {
	e.ensure(f)
	e.seen.Clear()
	e.queue = e.queue[:0]

	e.unpowerAll(f)
	if e.needsRebuild(f) {
		e.rebuild(f)
	}
	for _, b := range e.bundles {
		b.Carried, b.late = b.late, 0
		b.Inputs = 0
		b.Firing = false
	}

	e.emit(f, func(t particle.Type) bool { return !t.IsConditional() }, nil)
	e.transmit(f)

	for _, b := range e.bundles {
		b.Firing = !(b.Inputs | b.Carried).Any(particle.Type.IsPowerInput)
	}
	e.emit(f, particle.Type.IsConditional, func(p image.Point, t particle.Type) (int, bool) {
		id := e.bundleOf[p.Y*e.w+p.X]
		if id < 0 || e.bundles[id].Type != t || !e.bundles[id].Firing {
			return 0, false
		}
		return id, true
	})
	e.transmit(f)
}

func (e *Engine) ensure(f *field.Field) {
	if e.seen != nil && e.w == f.Width() && e.h == f.Height() {
		return
	}
	e.w, e.h = f.Width(), f.Height()
	e.bundleOf = make([]int, e.w*e.h)
	e.seen = core.NewMask(e.w, e.h)
	e.queue = make([]seed, 0, e.w*e.h/4)
	e.built = false
}

func (e *Engine) unpowerAll(f *field.Field) {
	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			c := f.Ref(image.Pt(x, y))
			if c.Type == particle.Background {
				continue
			}
			if u, ok := c.Type.Unpowered(); ok {
				c.Type = u
				f.UpdateColor(x, y)
			}
		}
	}
}

// needsRebuild keys the cache on the field's mutation clock. Only edits that
// place background or an emitter, or that overwrite an emitter, can change the
// bundle partition; conductor edits next to a bundle do not invalidate it.
func (e *Engine) needsRebuild(f *field.Field) bool {
	if !e.built {
		return true
	}
	m := f.LastMutation()
	if m.Clock <= e.builtAt {
		return false
	}
	return m.Type.IsBackground() || m.Type.EmitsPower() || m.Replaced.EmitsPower()
}

func (e *Engine) rebuild(f *field.Field) {
	for i := range e.bundleOf {
		e.bundleOf[i] = -1
	}
	e.bundles = e.bundles[:0]
	var stack []image.Point
	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			t := f.TypeAt(image.Pt(x, y))
			if !t.IsConditional() || e.bundleOf[y*e.w+x] >= 0 {
				continue
			}
			b := &Bundle{ID: len(e.bundles), Type: t}
			e.bundleOf[y*e.w+x] = b.ID
			stack = append(stack[:0], image.Pt(x, y))
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				b.Cells = append(b.Cells, p)
				for _, d := range field.Adjacent {
					n := p.Add(d)
					if !f.InBounds(n) || e.bundleOf[n.Y*e.w+n.X] >= 0 || f.TypeAt(n) != t {
						continue
					}
					e.bundleOf[n.Y*e.w+n.X] = b.ID
					stack = append(stack, n)
				}
			}
			e.bundles = append(e.bundles, b)
		}
	}
	e.built = true
	e.builtAt = f.LastMutation().Clock
	e.rebuilds++
	e.logger.Debug("rebuilt emitter bundles", "bundles", len(e.bundles), "clock", e.builtAt)
	if e.OnRebuild != nil {
		e.OnRebuild(len(e.bundles))
	}
}

// emit seeds the queue around every emitter accepted by match. Neighbours of the
// emitter's own type are marked seen instead: an emitter never powers its twin
// through the direct edge. bundleFor, when non-nil, gates each emitter and
// supplies the bundle tag.
func (e *Engine) emit(f *field.Field, match func(particle.Type) bool, bundleFor func(image.Point, particle.Type) (int, bool)) {
	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			p := image.Pt(x, y)
			t := f.TypeAt(p)
			if t == particle.Background || !t.EmitsPower() || !match(t) {
				continue
			}
			tag := unconditional
			if bundleFor != nil {
				id, ok := bundleFor(p, t)
				if !ok {
					continue
				}
				tag = id
			}
			for _, d := range field.Adjacent {
				n := p.Add(d)
				if !f.InBounds(n) {
					continue
				}
				if f.TypeAt(n) != t {
					e.queue = append(e.queue, seed{p: n, bundle: tag})
				} else {
					e.seen.Add(n.X, n.Y)
				}
			}
		}
	}
}

func (e *Engine) transmit(f *field.Field) {
	for head := 0; head < len(e.queue); head++ {
		s := e.queue[head]
		c := f.Ref(s.p)
		if c.Type == particle.Background {
			continue
		}
		if s.bundle != unconditional && c.Type.ConductsOnlyUnconditional() {
			continue
		}
		if !e.seen.Add(s.p.X, s.p.Y) {
			continue
		}

		src := c.Type
		if pw, ok := src.Powered(); ok {
			c.Type = pw
			f.UpdateColor(s.p.X, s.p.Y)
		}
		now := c.Type
		conductive := now.ConductsPower()
		for _, d := range field.Adjacent {
			n := s.p.Add(d)
			if !f.InBounds(n) {
				continue
			}
			if id := e.bundleOf[n.Y*e.w+n.X]; id >= 0 && id != s.bundle {
				b := e.bundles[id]
				b.Inputs = b.Inputs.Add(now)
				if s.bundle != unconditional {
					b.late = b.late.Add(now)
				}
			}
			nt := f.TypeAt(n)
			if !conductive && nt != src {
				continue
			}
			if src.WillNotPowerEmitters() && nt.EmitsPower() {
				continue
			}
			e.queue = append(e.queue, seed{p: n, bundle: s.bundle})
		}
	}
	e.queue = e.queue[:0]
}
